package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/LeapSeeker/matzip-demo/internal/apperr"
	"github.com/LeapSeeker/matzip-demo/internal/services"
	"github.com/LeapSeeker/matzip-demo/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	watcher     *services.AuthWatcher
}

func NewAuthHandler(authService *services.AuthService, watcher *services.AuthWatcher) *AuthHandler {
	return &AuthHandler{authService: authService, watcher: watcher}
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password); err != nil {
		utils.SendAppError(c, "Signup failed", err)
		return
	}

	utils.SendSuccess(c, "Sign-up complete. Please log in.", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	session, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrSessionUnconfirmed) {
			// Signed in, session not yet visible. The client must offer a
			// manual continue instead of retrying the login.
			utils.SendAppError(c, "Signed in, but session confirmation timed out", err)
			return
		}
		utils.SendAppError(c, "Login failed", err)
		return
	}

	utils.SendSuccess(c, "Login successful", gin.H{
		"access_token": session.AccessToken,
		"user_id":      session.UserID,
		"email":        session.Email,
		"expires_at":   session.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.watcher.SignOut(c.Request.Context()); err != nil {
		// Local state is already cleared; report success with a note.
		utils.SendSuccess(c, "Logged out locally; remote sign-out did not confirm", nil)
		return
	}

	utils.SendSuccess(c, "Logged out successfully", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := h.watcher.Current()
	if !ok {
		utils.SendSuccess(c, "No active session", nil)
		return
	}
	utils.SendSuccess(c, "Session active", gin.H{"user_id": id.ID, "email": id.Email})
}
