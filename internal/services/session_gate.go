package services

import (
	"context"
	"time"

	"github.com/LeapSeeker/matzip-demo/internal/apperr"
	"github.com/LeapSeeker/matzip-demo/internal/identity"
	"github.com/LeapSeeker/matzip-demo/internal/types"
)

const (
	// DefaultPollInterval matches the provider's observed materialization
	// cadence; polling faster buys nothing.
	DefaultPollInterval = 120 * time.Millisecond
	// DefaultSessionTimeout bounds session confirmation outside the login
	// flow; LoginSessionTimeout is the slightly larger budget right after a
	// sign-in call returns.
	DefaultSessionTimeout = 2000 * time.Millisecond
	LoginSessionTimeout   = 2200 * time.Millisecond
)

// SessionGate confirms that an authentication session has actually
// materialized before anyone trusts it. Sign-in completion and session
// materialization are not atomic in the identity provider; a bounded poll
// bridges the gap without blocking forever.
type SessionGate struct {
	identity identity.Service
	interval time.Duration
	budget   time.Duration
}

// NewSessionGate builds a gate polling every interval with the given
// default budget. Zero values fall back to the package defaults.
func NewSessionGate(svc identity.Service, interval, budget time.Duration) *SessionGate {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if budget <= 0 {
		budget = DefaultSessionTimeout
	}
	return &SessionGate{identity: svc, interval: interval, budget: budget}
}

// ResolveSession polls for a materialized session until timeout; a zero
// timeout means the gate's default budget. On exhaustion it returns a
// Timeout error: the caller must treat that as "session not confirmed",
// since an upstream mutation may still have succeeded, and offer a manual
// way forward rather than retrying silently.
func (g *SessionGate) ResolveSession(ctx context.Context, timeout time.Duration) (*types.Session, error) {
	if timeout <= 0 {
		timeout = g.budget
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		// Transport hiccups are ignored here; the poll budget is the only
		// failure that surfaces.
		session, err := g.identity.GetSession(ctx)
		if err == nil && session != nil {
			return session, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !time.Now().Before(deadline) {
			return nil, apperr.ErrSessionUnconfirmed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
