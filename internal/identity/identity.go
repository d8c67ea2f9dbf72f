package identity

import (
	"context"

	"github.com/LeapSeeker/matzip-demo/internal/types"
)

// Service is the contract consumed from the identity provider. All methods
// may fail with provider-worded errors; callers classify them through
// apperr.Normalize.
type Service interface {
	SignUp(ctx context.Context, email, password string) error
	SignInWithPassword(ctx context.Context, email, password string) error

	// GetSession returns the currently materialized session, or (nil, nil)
	// when none exists yet. Sign-in completion and session materialization
	// are not atomic in the provider; see services.SessionGate.
	GetSession(ctx context.Context) (*types.Session, error)

	// OnSessionChange registers a callback fired on every session change
	// (sign-in, refresh, sign-out, nil on sign-out). The returned function
	// releases the subscription.
	OnSessionChange(fn func(*types.Session)) (unsubscribe func())

	SignOut(ctx context.Context) error
}
