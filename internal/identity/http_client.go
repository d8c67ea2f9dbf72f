package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LeapSeeker/matzip-demo/internal/types"
)

// HTTPClient talks to a GoTrue-compatible identity provider over REST. The
// provider has no push channel on this surface, so session-change
// notifications fan out locally on the client's own state transitions,
// which is all the UI layer observes anyway.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu          sync.Mutex
	session     *types.Session
	subscribers map[int]func(*types.Session)
	nextSubID   int
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		subscribers: make(map[int]func(*types.Session)),
	}
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) error {
	_, err := c.post(ctx, "/signup", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	return err
}

func (c *HTTPClient) SignInWithPassword(ctx context.Context, email, password string) error {
	body, err := c.post(ctx, "/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		return err
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return errors.New("token response missing access token")
	}

	session := &types.Session{
		ID:          uuid.NewString(),
		UserID:      token.User.ID,
		Email:       token.User.Email,
		AccessToken: token.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
		CreatedAt:   time.Now(),
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	c.notify(session)
	return nil
}

func (c *HTTPClient) GetSession(ctx context.Context) (*types.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || time.Now().After(c.session.ExpiresAt) {
		return nil, nil
	}
	copied := *c.session
	return &copied, nil
}

func (c *HTTPClient) OnSessionChange(fn func(*types.Session)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	var err error
	if session != nil {
		_, err = c.post(ctx, "/logout", nil, session.AccessToken)
	}

	// Local state is cleared even when the remote call failed; a UI that
	// still looks signed in is worse than an incomplete remote sign-out.
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	c.notify(nil)

	return err
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any, bearer string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, errors.New(providerMessage(body, resp.StatusCode))
	}
	return body, nil
}

// providerMessage surfaces the provider's own wording verbatim so the
// apperr matcher can classify it.
func providerMessage(body []byte, status int) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, msg := range []string{parsed.ErrorDescription, parsed.Msg, parsed.Message, parsed.Error} {
			if msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("identity service returned status %d", status)
}

func (c *HTTPClient) notify(session *types.Session) {
	c.mu.Lock()
	fns := make([]func(*types.Session), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		var copied *types.Session
		if session != nil {
			s := *session
			copied = &s
		}
		fn(copied)
	}
}
