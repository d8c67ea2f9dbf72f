package services

import (
	"context"
	"sync"
	"time"

	"github.com/LeapSeeker/matzip-demo/internal/identity"
	"github.com/LeapSeeker/matzip-demo/internal/types"
	"github.com/LeapSeeker/matzip-demo/pkg/logger"
)

// AuthWatcher keeps a process-wide "current identity" value fresh for the
// UI: one immediate resolve on start, then a re-resolve on every change
// notification from the identity service. It is an injected service object
// with an explicit start/stop lifecycle so tests can run isolated
// instances.
type AuthWatcher struct {
	identity      identity.Service
	signOutBudget time.Duration

	mu          sync.Mutex
	generation  uint64
	current     *types.Identity
	ready       bool
	unsubscribe func()
}

// NewAuthWatcher builds a watcher whose remote sign-out is bounded by
// signOutBudget; zero falls back to DefaultSessionTimeout.
func NewAuthWatcher(svc identity.Service, signOutBudget time.Duration) *AuthWatcher {
	if signOutBudget <= 0 {
		signOutBudget = DefaultSessionTimeout
	}
	return &AuthWatcher{
		identity:      svc,
		signOutBudget: signOutBudget,
	}
}

// Start resolves the current identity once, then subscribes to change
// notifications. Calling Start twice is a no-op.
func (w *AuthWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.unsubscribe != nil {
		w.mu.Unlock()
		return
	}
	gen := w.generation
	w.unsubscribe = w.identity.OnSessionChange(func(session *types.Session) {
		w.apply(session)
	})
	w.mu.Unlock()

	session, err := w.identity.GetSession(ctx)
	if err != nil {
		logger.WithFields(map[string]interface{}{"error": err.Error()}).Warn("auth watcher: initial session read failed")
		session = nil
	}
	w.applyInitial(gen, session)
}

// Stop releases the subscription. The last known identity stays readable.
func (w *AuthWatcher) Stop() {
	w.mu.Lock()
	unsub := w.unsubscribe
	w.unsubscribe = nil
	w.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Ready reports whether the first resolve has completed; before that the
// UI shows a loading state rather than "Guest".
func (w *AuthWatcher) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ready
}

// Current returns the current identity, if any.
func (w *AuthWatcher) Current() (types.Identity, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return types.Identity{}, false
	}
	return *w.current, true
}

// SignOut asks the identity service to end the session, bounded by the
// sign-out budget. On timeout or failure the remote sign-out is treated as
// best-effort: local identity state is cleared regardless, because a UI
// that still looks signed in is worse than an incomplete remote sign-out.
func (w *AuthWatcher) SignOut(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.signOutBudget)
	defer cancel()

	err := w.identity.SignOut(ctx)
	if err != nil {
		logger.WithFields(map[string]interface{}{"error": err.Error()}).Warn("sign-out slow or failed, forcing local cleanup")
	}

	w.apply(nil)
	return err
}

func (w *AuthWatcher) apply(session *types.Session) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation++
	w.set(session)
}

// applyInitial commits the one-shot read from Start only when no change
// notification landed since the subscription was taken; a fresher
// notification must not be overwritten by the older read.
func (w *AuthWatcher) applyInitial(gen uint64, session *types.Session) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation != gen {
		w.ready = true
		return
	}
	w.set(session)
}

func (w *AuthWatcher) set(session *types.Session) {
	w.ready = true
	if session == nil {
		w.current = nil
		return
	}
	id := session.Identity()
	w.current = &id
}
