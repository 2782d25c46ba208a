package gamequery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
)

// valveProber speaks the Valve server query protocol (A2S_INFO) over UDP.
// It covers every Source-derived game in the catalog.
type valveProber struct{}

const (
	a2sInfoType      = 0x54
	a2sInfoReply     = 0x49
	a2sChallengeType = 0x41
)

var a2sInfoPayload = []byte("Source Engine Query\x00")

func (p *valveProber) Probe(ctx context.Context, host string, port int) (Status, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return Status{}, fmt.Errorf("dial %s:%d: %w", host, port, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return Status{}, fmt.Errorf("set deadline: %w", err)
		}
	}

	reply, err := p.exchange(conn, nil)
	if err != nil {
		return Status{}, err
	}

	// The server may demand a challenge round-trip before answering.
	if reply[0] == a2sChallengeType {
		if len(reply) < 5 {
			return Status{}, fmt.Errorf("short challenge reply (%d bytes)", len(reply))
		}
		reply, err = p.exchange(conn, reply[1:5])
		if err != nil {
			return Status{}, err
		}
	}

	if reply[0] != a2sInfoReply {
		return Status{}, fmt.Errorf("unexpected reply type 0x%02x", reply[0])
	}
	return parseInfoReply(reply[1:])
}

// exchange sends one A2S_INFO request (with an optional challenge suffix)
// and returns the reply with the 4-byte packet header stripped.
func (p *valveProber) exchange(conn net.Conn, challenge []byte) ([]byte, error) {
	req := make([]byte, 0, 5+len(a2sInfoPayload)+len(challenge))
	req = append(req, 0xFF, 0xFF, 0xFF, 0xFF, a2sInfoType)
	req = append(req, a2sInfoPayload...)
	req = append(req, challenge...)

	if _, err := conn.Write(req); err != nil {
		return nil, fmt.Errorf("write query: %w", err)
	}

	buf := make([]byte, 1400)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read reply: %w", err)
	}
	if n < 5 || !bytes.Equal(buf[:4], []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		return nil, fmt.Errorf("malformed reply header (%d bytes)", n)
	}
	return buf[4:n], nil
}

// parseInfoReply decodes the body of an A2S_INFO reply: protocol byte, four
// null-terminated strings (name, map, folder, game), a 2-byte app id, then
// player and max-player counts.
func parseInfoReply(body []byte) (Status, error) {
	r := bytes.NewReader(body)
	if _, err := r.ReadByte(); err != nil { // protocol version
		return Status{}, fmt.Errorf("truncated info reply: %w", err)
	}
	if _, err := readCString(r); err != nil { // server name
		return Status{}, err
	}
	mapName, err := readCString(r)
	if err != nil {
		return Status{}, err
	}
	if _, err := readCString(r); err != nil { // folder
		return Status{}, err
	}
	if _, err := readCString(r); err != nil { // game
		return Status{}, err
	}
	skip := make([]byte, 2) // app id
	if _, err := io.ReadFull(r, skip); err != nil {
		return Status{}, fmt.Errorf("truncated info reply: %w", err)
	}
	players, err := r.ReadByte()
	if err != nil {
		return Status{}, fmt.Errorf("truncated info reply: %w", err)
	}
	maxPlayers, err := r.ReadByte()
	if err != nil {
		return Status{}, fmt.Errorf("truncated info reply: %w", err)
	}

	return Status{
		Online:         true,
		CurrentPlayers: int(players),
		MaxPlayers:     int(maxPlayers),
		CurrentMap:     mapName,
	}, nil
}

func readCString(r *bytes.Reader) (string, error) {
	var sb bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", fmt.Errorf("unterminated string in info reply: %w", err)
		}
		if b == 0 {
			return sb.String(), nil
		}
		sb.WriteByte(b)
	}
}
