package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeapSeeker/matzip-demo/internal/types"
)

func TestMemory_SignUpAndSignIn(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.SignUp(ctx, "a@b.com", "123456"))
	require.NoError(t, mem.SignInWithPassword(ctx, "a@b.com", "123456"))

	session, err := mem.GetSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "a@b.com", session.Email)
	assert.NotEmpty(t, session.UserID)
	assert.NotEmpty(t, session.AccessToken)
}

func TestMemory_ProviderWordedErrors(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	require.NoError(t, mem.SignUp(ctx, "a@b.com", "123456"))

	err := mem.SignUp(ctx, "a@b.com", "other")
	require.Error(t, err)
	assert.Equal(t, "User already registered", err.Error())

	err = mem.SignInWithPassword(ctx, "a@b.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestMemory_EmailConfirmationGate(t *testing.T) {
	mem := NewMemory()
	mem.RequireEmailConfirmation = true
	ctx := context.Background()

	require.NoError(t, mem.SignUp(ctx, "a@b.com", "123456"))

	err := mem.SignInWithPassword(ctx, "a@b.com", "123456")
	require.Error(t, err)
	assert.Equal(t, "Email not confirmed", err.Error())

	mem.ConfirmEmail("a@b.com")
	assert.NoError(t, mem.SignInWithPassword(ctx, "a@b.com", "123456"))
}

func TestMemory_SessionDelayHidesFreshSession(t *testing.T) {
	mem := NewMemory()
	mem.SessionDelay = 200 * time.Millisecond
	ctx := context.Background()

	require.NoError(t, mem.SignUp(ctx, "a@b.com", "123456"))
	require.NoError(t, mem.SignInWithPassword(ctx, "a@b.com", "123456"))

	session, err := mem.GetSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	time.Sleep(250 * time.Millisecond)
	session, err = mem.GetSession(ctx)
	require.NoError(t, err)
	assert.NotNil(t, session)
}

func TestMemory_Subscriptions(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.SignUp(ctx, "a@b.com", "123456"))

	var events []*types.Session
	unsubscribe := mem.OnSessionChange(func(s *types.Session) {
		events = append(events, s)
	})

	require.NoError(t, mem.SignInWithPassword(ctx, "a@b.com", "123456"))
	require.NoError(t, mem.SignOut(ctx))
	require.Len(t, events, 2)
	assert.NotNil(t, events[0])
	assert.Nil(t, events[1])

	unsubscribe()
	require.NoError(t, mem.SignInWithPassword(ctx, "a@b.com", "123456"))
	assert.Len(t, events, 2)
}

func TestMemory_SignOutRespectsContext(t *testing.T) {
	mem := NewMemory()
	mem.SignOutDelay = time.Second
	ctx := context.Background()
	require.NoError(t, mem.SignUp(ctx, "a@b.com", "123456"))
	require.NoError(t, mem.SignInWithPassword(ctx, "a@b.com", "123456"))

	timed, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := mem.SignOut(timed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	id := types.Identity{ID: "uid-1", Email: "a@b.com"}
	token, expiresAt, err := IssueAccessToken(id, "secret")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := ParseAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)

	_, err = ParseAccessToken(token, "other-secret")
	assert.Error(t, err)
}
