package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/LeapSeeker/matzip-demo/internal/types"
)

// Provider-worded errors. Wording matches the hosted identity service so the
// same apperr rules classify both adapters.
var (
	errAlreadyRegistered  = errors.New("User already registered")
	errInvalidCredentials = errors.New("Invalid login credentials")
	errEmailNotConfirmed  = errors.New("Email not confirmed")
)

type memoryUser struct {
	id           string
	email        string
	passwordHash []byte
	confirmed    bool
}

// Memory is an in-memory identity service used by tests and local runs.
// A just-signed-in session only becomes visible to GetSession after
// SessionDelay has elapsed, reproducing the materialization lag the
// session gate exists to bridge.
type Memory struct {
	// SessionDelay is how long a new session stays invisible to GetSession.
	SessionDelay time.Duration
	// SignOutDelay simulates a slow remote sign-out.
	SignOutDelay time.Duration
	// RequireEmailConfirmation blocks sign-in until ConfirmEmail is called.
	RequireEmailConfirmation bool

	Secret string

	mu          sync.Mutex
	users       map[string]*memoryUser
	session     *types.Session
	visibleAt   time.Time
	subscribers map[int]func(*types.Session)
	nextSubID   int
}

func NewMemory() *Memory {
	return &Memory{
		Secret:      "memory-identity-secret",
		users:       make(map[string]*memoryUser),
		subscribers: make(map[int]func(*types.Session)),
	}
}

func (m *Memory) SignUp(ctx context.Context, email, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[email]; exists {
		return errAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	m.users[email] = &memoryUser{
		id:           uuid.NewString(),
		email:        email,
		passwordHash: hash,
		confirmed:    !m.RequireEmailConfirmation,
	}
	return nil
}

// ConfirmEmail marks a user as confirmed, standing in for the mail link.
func (m *Memory) ConfirmEmail(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		u.confirmed = true
	}
}

func (m *Memory) SignInWithPassword(ctx context.Context, email, password string) error {
	m.mu.Lock()

	user, ok := m.users[email]
	if !ok || bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)) != nil {
		m.mu.Unlock()
		return errInvalidCredentials
	}
	if !user.confirmed {
		m.mu.Unlock()
		return errEmailNotConfirmed
	}

	id := types.Identity{ID: user.id, Email: user.email}
	token, expiresAt, err := IssueAccessToken(id, m.Secret)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	session := &types.Session{
		ID:          uuid.NewString(),
		UserID:      user.id,
		Email:       user.email,
		AccessToken: token,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now(),
	}
	m.session = session
	m.visibleAt = time.Now().Add(m.SessionDelay)
	m.mu.Unlock()

	m.notify(session)
	return nil
}

func (m *Memory) GetSession(ctx context.Context) (*types.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil || time.Now().Before(m.visibleAt) {
		return nil, nil
	}
	copied := *m.session
	return &copied, nil
}

func (m *Memory) OnSessionChange(fn func(*types.Session)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

func (m *Memory) SignOut(ctx context.Context) error {
	if m.SignOutDelay > 0 {
		select {
		case <-time.After(m.SignOutDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()

	m.notify(nil)
	return nil
}

func (m *Memory) notify(session *types.Session) {
	m.mu.Lock()
	fns := make([]func(*types.Session), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		var copied *types.Session
		if session != nil {
			c := *session
			copied = &c
		}
		fn(copied)
	}
}
