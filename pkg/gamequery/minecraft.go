package gamequery

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode/utf16"
)

// minecraftProber speaks the Minecraft legacy server list ping (0xFE 0x01)
// over TCP. Every server version since beta 1.8 answers it, which keeps the
// prober independent of the protocol-version negotiation the modern ping
// requires.
type minecraftProber struct{}

func (p *minecraftProber) Probe(ctx context.Context, host string, port int) (Status, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return Status{}, fmt.Errorf("dial %s:%d: %w", host, port, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return Status{}, fmt.Errorf("set deadline: %w", err)
		}
	}

	if _, err := conn.Write([]byte{0xFE, 0x01}); err != nil {
		return Status{}, fmt.Errorf("write ping: %w", err)
	}

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return Status{}, fmt.Errorf("read ping reply: %w", err)
	}
	// Reply is a kick packet: 0xFF, a 2-byte char count, then UTF-16BE text.
	if n < 3 || buf[0] != 0xFF {
		return Status{}, fmt.Errorf("malformed ping reply (%d bytes)", n)
	}
	text, err := decodeUTF16BE(buf[3:n])
	if err != nil {
		return Status{}, err
	}
	return parsePingReply(text)
}

func decodeUTF16BE(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("odd-length UTF-16 payload (%d bytes)", len(b))
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return string(utf16.Decode(units)), nil
}

// parsePingReply handles both reply dialects: the post-1.4 form is
// null-separated ("§1", protocol, version, motd, online, max), the older
// form is "motd§online§max".
func parsePingReply(text string) (Status, error) {
	var online, max string
	if strings.HasPrefix(text, "§1\x00") {
		parts := strings.Split(text, "\x00")
		if len(parts) < 6 {
			return Status{}, fmt.Errorf("short ping reply (%d fields)", len(parts))
		}
		online, max = parts[4], parts[5]
	} else {
		parts := strings.Split(text, "§")
		if len(parts) < 3 {
			return Status{}, fmt.Errorf("short ping reply (%d fields)", len(parts))
		}
		online, max = parts[len(parts)-2], parts[len(parts)-1]
	}

	current, err := strconv.Atoi(strings.TrimSpace(online))
	if err != nil {
		return Status{}, fmt.Errorf("bad player count %q: %w", online, err)
	}
	maxPlayers, err := strconv.Atoi(strings.TrimSpace(max))
	if err != nil {
		return Status{}, fmt.Errorf("bad max player count %q: %w", max, err)
	}

	return Status{
		Online:         true,
		CurrentPlayers: current,
		MaxPlayers:     maxPlayers,
	}, nil
}
