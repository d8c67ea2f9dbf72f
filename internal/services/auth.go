package services

import (
	"context"
	"strings"
	"time"

	"github.com/LeapSeeker/matzip-demo/internal/apperr"
	"github.com/LeapSeeker/matzip-demo/internal/identity"
	"github.com/LeapSeeker/matzip-demo/internal/types"
	"github.com/LeapSeeker/matzip-demo/internal/utils"
	"github.com/LeapSeeker/matzip-demo/pkg/logger"
)

// AuthService drives the sign-up and sign-in flows against the identity
// collaborator. Validation failures are caught locally before any network
// call; collaborator failures come back classified through the message
// matcher.
type AuthService struct {
	identity    identity.Service
	gate        *SessionGate
	loginBudget time.Duration
}

// NewAuthService builds the auth flows on top of the gate. A zero
// loginBudget falls back to LoginSessionTimeout.
func NewAuthService(svc identity.Service, gate *SessionGate, loginBudget time.Duration) *AuthService {
	if loginBudget <= 0 {
		loginBudget = LoginSessionTimeout
	}
	return &AuthService{identity: svc, gate: gate, loginBudget: loginBudget}
}

func (s *AuthService) validateCredentials(email, password string) (string, error) {
	em := utils.SanitizeString(email)
	if em == "" || strings.TrimSpace(password) == "" {
		return "", apperr.Validation("email and password are required")
	}
	if !utils.IsValidPassword(password) {
		return "", apperr.Validation("password must be at least 6 characters")
	}
	return em, nil
}

// SignUp registers a new identity. On success the caller switches the form
// to login mode; email confirmation may still be pending on the provider
// side.
func (s *AuthService) SignUp(ctx context.Context, email, password string) error {
	em, err := s.validateCredentials(email, password)
	if err != nil {
		return err
	}

	if err := s.identity.SignUp(ctx, em, password); err != nil {
		return apperr.Normalize(err)
	}

	logger.WithFields(map[string]interface{}{"email": em}).Info("sign-up accepted")
	return nil
}

// SignIn authenticates and then confirms the session actually materialized
// before reporting success. A Timeout here means "signed in but session not
// confirmed": the surface must offer manual navigation, not retry.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*types.Session, error) {
	em, err := s.validateCredentials(email, password)
	if err != nil {
		return nil, err
	}

	if err := s.identity.SignInWithPassword(ctx, em, password); err != nil {
		return nil, apperr.Normalize(err)
	}

	session, err := s.gate.ResolveSession(ctx, s.loginBudget)
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{"user_id": session.UserID}).Info("sign-in confirmed")
	return session, nil
}
