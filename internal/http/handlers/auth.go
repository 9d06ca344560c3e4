package handlers

import (
	"net/http"
	"time"

	"gradglow/internal/app"
	"gradglow/internal/common"
	"gradglow/internal/domain/user"
	"gradglow/internal/http/middleware"
	"gradglow/internal/http/response"
)

const sessionTokenHeader = "X-Session-Token"

type AuthHandler struct {
	auth         *app.AuthService
	limiter      middleware.Limiter
	signInLimit  int
	signInWindow time.Duration
}

func NewAuthHandler(auth *app.AuthService, limiter middleware.Limiter, signInLimit int, signInWindow time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter, signInLimit: signInLimit, signInWindow: signInWindow}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type sessionResponse struct {
	User         *user.User `json:"user"`
	SessionToken string     `json:"session_token"`
	AccessToken  string     `json:"access_token"`
	ExpiresAt    string     `json:"expires_at"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil && !h.limiter.Allow("signin:"+clientIP(r), h.signInLimit, h.signInWindow) {
		response.Error(w, common.NewError(common.CodeRateLimited, "too many sign in attempts", nil))
		return
	}
	result, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, sessionResponse{
		User:         result.User,
		SessionToken: result.SessionToken,
		AccessToken:  result.AccessToken,
		ExpiresAt:    result.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.SignUp(r.Context(), req.Email, req.Password, user.Role(req.Role), req.Name)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, sessionResponse{
		User:         result.User,
		SessionToken: result.SessionToken,
		AccessToken:  result.AccessToken,
		ExpiresAt:    result.ExpiresAt.Format(time.RFC3339),
	})
}

// SignOut always answers 204: local sign-out must succeed even when the
// session backend is down.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.auth.SignOut(r.Context(), r.Header.Get(sessionTokenHeader))
	response.JSON(w, http.StatusNoContent, nil)
}

type meResponse struct {
	User *user.User `json:"user"`
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.auth.CurrentUser(r.Context(), r.Header.Get(sessionTokenHeader))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, meResponse{User: account})
}
