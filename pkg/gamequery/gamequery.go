// Package gamequery probes remote game servers for liveness and player
// counts. Each supported game family has its own wire protocol behind the
// Prober interface; the Driver hides all of that behind a single call that
// never fails: any network error, malformed response or unknown game code
// is reported as an offline server.
package gamequery

import (
	"context"
	"log"
	"time"
)

const (
	// DefaultTimeout bounds the wall-clock time of a single probe attempt.
	DefaultTimeout = 3 * time.Second
	// maxAttempts is the number of probe attempts before a server is
	// reported offline.
	maxAttempts = 2
)

// Status is the outcome of a probe. The zero value is the offline outcome.
type Status struct {
	Online         bool
	CurrentPlayers int
	MaxPlayers     int
	CurrentMap     string
}

// Prober issues one status query against a remote game server. The context
// carries the per-attempt deadline.
type Prober interface {
	Probe(ctx context.Context, host string, port int) (Status, error)
}

// Driver resolves a game short code to its prober and runs the query with
// the timeout/retry policy applied. Query never returns an error: callers
// must treat an unreachable server the same as a down one.
type Driver interface {
	Query(ctx context.Context, game, host string, port int) Status
}

type driver struct {
	probers map[string]Prober
	timeout time.Duration
}

// NewDriver creates a Driver with probers registered for the default game
// catalog. A timeout <= 0 falls back to DefaultTimeout.
func NewDriver(timeout time.Duration) Driver {
	valve := &valveProber{}
	return NewDriverWithProbers(map[string]Prober{
		"cs2":       valve,
		"rust":      valve,
		"valheim":   valve,
		"gta5":      valve,
		"minecraft": &minecraftProber{},
	}, timeout)
}

// NewDriverWithProbers creates a Driver with an explicit prober registry.
func NewDriverWithProbers(probers map[string]Prober, timeout time.Duration) Driver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &driver{
		probers: probers,
		timeout: timeout,
	}
}

// Query probes host:port with the prober registered for game. Games without
// a registered prober degrade to offline rather than erroring.
func (d *driver) Query(ctx context.Context, game, host string, port int) Status {
	prober, ok := d.probers[game]
	if !ok {
		log.Printf("gamequery: no prober registered for game %q, reporting %s:%d offline", game, host, port)
		return Status{}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, d.timeout)
		status, err := prober.Probe(attemptCtx, host, port)
		cancel()
		if err == nil {
			return status
		}
		log.Printf("gamequery: probe %s:%d (%s) attempt %d/%d failed: %v", host, port, game, attempt, maxAttempts, err)
	}
	return Status{}
}
