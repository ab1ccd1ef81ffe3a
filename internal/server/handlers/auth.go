package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/authd/internal/server/auth"
	"github.com/iudanet/authd/internal/server/token"
	"github.com/iudanet/authd/pkg/api"
)

// AuthHandler is the HTTP boundary of the auth orchestrator. It decodes
// request bodies, maps the service error taxonomy to status codes, and
// attaches session tokens to the cookie transport.
type AuthHandler struct {
	logger        *slog.Logger
	service       *auth.Service
	tokenCfg      token.Config
	secureCookies bool
}

// NewAuthHandler creates a new handler for the auth endpoints.
// secureCookies should be true in production deployments.
func NewAuthHandler(logger *slog.Logger, service *auth.Service, tokenCfg token.Config, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		logger:        logger,
		service:       service,
		tokenCfg:      tokenCfg,
		secureCookies: secureCookies,
	}
}

// Signup handles POST /api/auth/signup.
// A session is issued immediately, before the email is verified.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signup request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Signup(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	if !h.issueSession(ctx, w, result.Account.ID) {
		return
	}

	message := "Account created successfully"
	if result.MailErr != nil {
		message = "Account created, but the verification email could not be sent"
	}

	h.sendJSON(w, api.AuthResponse{
		Success: true,
		Message: message,
		User:    result.Account.Sanitize(),
	}, http.StatusCreated)
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode verify request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.VerifyEmail(ctx, req.Code)
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	message := "Email verified"
	if result.MailErr != nil {
		message = "Email verified, but the welcome email could not be sent"
	}

	h.sendJSON(w, api.AuthResponse{
		Success: true,
		Message: message,
		User:    result.Account.Sanitize(),
	}, http.StatusOK)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	if !h.issueSession(ctx, w, account.ID) {
		return
	}

	h.sendJSON(w, api.AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    account.Sanitize(),
	}, http.StatusOK)
}

// Logout handles POST /api/auth/logout.
// Sessions are stateless, so logout only clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.secureCookies)

	h.sendJSON(w, api.AuthResponse{
		Success: true,
		Message: "Logout successful",
	}, http.StatusOK)
}

// ForgotPassword handles POST /api/auth/forgot-password.
// The response is identical whether or not the email is registered, and a
// mail delivery failure is not surfaced either: any distinct response here
// would leak account existence.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode forgot-password request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.service.ForgotPassword(ctx, req.Email); err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	h.sendJSON(w, api.AuthResponse{
		Success: true,
		Message: "If that email is registered, a password reset link has been sent",
	}, http.StatusOK)
}

// ResetPassword handles POST /api/auth/reset-password/{token}.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resetToken := r.PathValue("token")

	var req api.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode reset-password request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.ResetPassword(ctx, resetToken, req.Password)
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	message := "Password reset successfully"
	if result.MailErr != nil {
		message = "Password reset successfully, but the confirmation email could not be sent"
	}

	h.sendJSON(w, api.AuthResponse{
		Success: true,
		Message: message,
	}, http.StatusOK)
}

// CheckAuthentication handles GET /api/auth/check-authentication.
// The session middleware has already verified the cookie.
func (h *AuthHandler) CheckAuthentication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := AccountIDFromContext(ctx)
	if !ok {
		h.sendError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	account, err := h.service.CheckAuth(ctx, accountID)
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	h.sendJSON(w, api.AuthResponse{
		Success: true,
		User:    account.Sanitize(),
	}, http.StatusOK)
}

// issueSession signs a session token and attaches it as a cookie.
// On failure it writes the error response and returns false.
func (h *AuthHandler) issueSession(ctx context.Context, w http.ResponseWriter, accountID string) bool {
	tokenString, expiresAt, err := token.Issue(h.tokenCfg, accountID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return false
	}

	setSessionCookie(w, tokenString, expiresAt, h.secureCookies)
	return true
}

// handleServiceError maps the service error taxonomy to HTTP responses.
func (h *AuthHandler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation):
		h.sendError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrEmailTaken):
		h.sendError(w, "email already registered", http.StatusConflict)
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.sendError(w, "invalid credentials", http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidOrExpired):
		h.sendError(w, "code or token is invalid or expired", http.StatusBadRequest)
	case errors.Is(err, auth.ErrNotFound):
		h.sendError(w, "account not found", http.StatusNotFound)
	case errors.Is(err, auth.ErrUnauthenticated):
		h.sendError(w, "unauthenticated", http.StatusUnauthorized)
	default:
		h.logger.ErrorContext(ctx, "unexpected service error", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
	}
}

// sendJSON writes a JSON response.
func (h *AuthHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError writes a failure envelope.
func (h *AuthHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, api.AuthResponse{
		Success: false,
		Message: message,
	}, statusCode)
}
