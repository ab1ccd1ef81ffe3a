package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authd/internal/models"
	"github.com/iudanet/authd/internal/server/auth"
	"github.com/iudanet/authd/internal/server/hasher"
	"github.com/iudanet/authd/internal/server/storage"
	"github.com/iudanet/authd/internal/server/token"
	"github.com/iudanet/authd/pkg/api"
)

// mockStorage is an in-memory AccountStorage for handler tests.
type mockStorage struct {
	accounts map[string]*models.Account // ID -> account
}

func newMockStorage() *mockStorage {
	return &mockStorage{accounts: make(map[string]*models.Account)}
}

func (m *mockStorage) CreateAccount(ctx context.Context, account *models.Account) error {
	for _, a := range m.accounts {
		if a.Email == account.Email {
			return storage.ErrEmailTaken
		}
	}
	clone := *account
	m.accounts[account.ID] = &clone
	return nil
}

func (m *mockStorage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, storage.ErrAccountNotFound
}

func (m *mockStorage) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *mockStorage) GetAccountByVerificationCode(ctx context.Context, code string, now time.Time) (*models.Account, error) {
	for _, a := range m.accounts {
		if a.VerificationCode == code && a.VerificationExpiresAt != nil && a.VerificationExpiresAt.After(now) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, storage.ErrAccountNotFound
}

func (m *mockStorage) GetAccountByResetToken(ctx context.Context, resetToken string, now time.Time) (*models.Account, error) {
	for _, a := range m.accounts {
		if a.ResetToken != "" && a.ResetToken == resetToken && a.ResetExpiresAt != nil && a.ResetExpiresAt.After(now) {
			clone := *a
			return &clone, nil
		}
	}
	return nil, storage.ErrAccountNotFound
}

func (m *mockStorage) UpdateAccount(ctx context.Context, account *models.Account) error {
	if _, ok := m.accounts[account.ID]; !ok {
		return storage.ErrAccountNotFound
	}
	clone := *account
	m.accounts[account.ID] = &clone
	return nil
}

func (m *mockStorage) UpdateLastLogin(ctx context.Context, id string, lastLogin time.Time) error {
	a, ok := m.accounts[id]
	if !ok {
		return storage.ErrAccountNotFound
	}
	a.LastLoginAt = &lastLogin
	a.UpdatedAt = lastLogin
	return nil
}

// mockSender accepts every send; failWith switches it to failing.
type mockSender struct {
	failWith error
}

func (m *mockSender) SendVerification(ctx context.Context, toEmail, code string) error {
	return m.failWith
}
func (m *mockSender) SendWelcome(ctx context.Context, toEmail, name string) error {
	return m.failWith
}
func (m *mockSender) SendResetRequest(ctx context.Context, toEmail, resetURL string) error {
	return m.failWith
}
func (m *mockSender) SendResetSuccess(ctx context.Context, toEmail string) error {
	return m.failWith
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testTokenConfig() token.Config {
	return token.Config{
		Secret: []byte("test-secret"),
		TTL:    7 * 24 * time.Hour,
	}
}

func newTestHandler(store *mockStorage, sender *mockSender) *AuthHandler {
	logger := setupTestLogger()
	service := auth.NewService(logger, store, hasher.NewBcrypt(4), sender, auth.Config{
		VerificationTTL: 24 * time.Hour,
		ResetTTL:        30 * time.Minute,
		AppURL:          "http://localhost:3000",
	})
	return NewAuthHandler(logger, service, testTokenConfig(), false)
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) api.AuthResponse {
	t.Helper()

	var resp api.AuthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSignup_Success(t *testing.T) {
	handler := newTestHandler(newMockStorage(), &mockSender{})

	w := postJSON(t, handler.Signup, "/api/auth/signup", api.SignupRequest{
		Email:    "a@x.com",
		Password: "pw123456",
		Name:     "Ann",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.User)
	assert.False(t, resp.User.IsVerified)
	assert.Equal(t, "a@x.com", resp.User.Email)

	// Session is issued immediately, before verification.
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.Secure) // development mode

	accountID, err := token.Verify(testTokenConfig(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, accountID)
}

func TestSignup_PasswordNeverSerialized(t *testing.T) {
	handler := newTestHandler(newMockStorage(), &mockSender{})

	w := postJSON(t, handler.Signup, "/api/auth/signup", api.SignupRequest{
		Email:    "a@x.com",
		Password: "pw123456",
		Name:     "Ann",
	})

	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "pw123456")
}

func TestSignup_MissingFields(t *testing.T) {
	handler := newTestHandler(newMockStorage(), &mockSender{})

	w := postJSON(t, handler.Signup, "/api/auth/signup", api.SignupRequest{
		Email: "a@x.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	handler := newTestHandler(newMockStorage(), &mockSender{})

	req := api.SignupRequest{Email: "a@x.com", Password: "pw123456", Name: "Ann"}
	w := postJSON(t, handler.Signup, "/api/auth/signup", req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, handler.Signup, "/api/auth/signup", req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignup_MailFailureIsSoftWarning(t *testing.T) {
	handler := newTestHandler(newMockStorage(), &mockSender{failWith: errors.New("provider down")})

	w := postJSON(t, handler.Signup, "/api/auth/signup", api.SignupRequest{
		Email:    "a@x.com",
		Password: "pw123456",
		Name:     "Ann",
	})

	// The account write succeeded; delivery failure is only a warning.
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "could not be sent")
}

func TestLogin_UniformErrorMessage(t *testing.T) {
	store := newMockStorage()
	handler := newTestHandler(store, &mockSender{})

	w := postJSON(t, handler.Signup, "/api/auth/signup", api.SignupRequest{
		Email: "a@x.com", Password: "pw123456", Name: "Ann",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	wrongPw := postJSON(t, handler.Login, "/api/auth/login", api.LoginRequest{
		Email: "a@x.com", Password: "wrong-password",
	})
	unknown := postJSON(t, handler.Login, "/api/auth/login", api.LoginRequest{
		Email: "nobody@x.com", Password: "pw123456",
	})

	assert.Equal(t, http.StatusBadRequest, wrongPw.Code)
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, decodeEnvelope(t, wrongPw).Message, decodeEnvelope(t, unknown).Message)
}

func TestLogout_ClearsCookie(t *testing.T) {
	handler := newTestHandler(newMockStorage(), &mockSender{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestForgotPassword_UniformAck(t *testing.T) {
	store := newMockStorage()
	handler := newTestHandler(store, &mockSender{})

	w := postJSON(t, handler.Signup, "/api/auth/signup", api.SignupRequest{
		Email: "a@x.com", Password: "pw123456", Name: "Ann",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	known := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", api.ForgotPasswordRequest{Email: "a@x.com"})
	unknown := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", api.ForgotPasswordRequest{Email: "nobody@x.com"})

	// Response never reveals whether the email exists.
	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, decodeEnvelope(t, known).Message, decodeEnvelope(t, unknown).Message)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	handler := newTestHandler(newMockStorage(), &mockSender{})

	data, err := json.Marshal(api.ResetPasswordRequest{Password: "newpw12345"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password/bogus", bytes.NewReader(data))
	req.SetPathValue("token", "bogus")

	w := httptest.NewRecorder()
	handler.ResetPassword(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAuthentication_AccountVanished(t *testing.T) {
	handler := newTestHandler(newMockStorage(), &mockSender{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-authentication", nil)
	ctx := context.WithValue(req.Context(), AccountIDKey, "vanished-id")

	w := httptest.NewRecorder()
	handler.CheckAuthentication(w, req.WithContext(ctx))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestFullLifecycle walks the whole account flow:
// signup -> verify -> login -> forgot -> reset -> login with new password.
func TestFullLifecycle(t *testing.T) {
	store := newMockStorage()
	handler := newTestHandler(store, &mockSender{})
	ctx := context.Background()

	// Signup
	w := postJSON(t, handler.Signup, "/api/auth/signup", api.SignupRequest{
		Email: "a@x.com", Password: "pw123456", Name: "Ann",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	signupResp := decodeEnvelope(t, w)
	require.False(t, signupResp.User.IsVerified)

	// Verify with the code from the store
	stored, err := store.GetAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.VerificationCode)

	w = postJSON(t, handler.VerifyEmail, "/api/auth/verify-email", api.VerifyEmailRequest{
		Code: stored.VerificationCode,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeEnvelope(t, w).User.IsVerified)

	// Login
	w = postJSON(t, handler.Login, "/api/auth/login", api.LoginRequest{
		Email: "a@x.com", Password: "pw123456",
	})
	require.Equal(t, http.StatusOK, w.Code)
	loginResp := decodeEnvelope(t, w)
	assert.NotNil(t, loginResp.User.LastLoginAt)
	require.NotNil(t, sessionCookie(w))

	// CheckAuthentication with the issued session
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-authentication", nil)
	checkCtx := context.WithValue(req.Context(), AccountIDKey, loginResp.User.ID)
	w2 := httptest.NewRecorder()
	handler.CheckAuthentication(w2, req.WithContext(checkCtx))
	require.Equal(t, http.StatusOK, w2.Code)

	// Forgot password
	w = postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", api.ForgotPasswordRequest{
		Email: "a@x.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err = store.GetAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.ResetToken)

	// Reset password
	data, err := json.Marshal(api.ResetPasswordRequest{Password: "newpw12345"})
	require.NoError(t, err)
	resetReq := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password/"+stored.ResetToken, bytes.NewReader(data))
	resetReq.SetPathValue("token", stored.ResetToken)
	w3 := httptest.NewRecorder()
	handler.ResetPassword(w3, resetReq)
	require.Equal(t, http.StatusOK, w3.Code)

	// Old password no longer works
	w = postJSON(t, handler.Login, "/api/auth/login", api.LoginRequest{
		Email: "a@x.com", Password: "pw123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// New password does
	w = postJSON(t, handler.Login, "/api/auth/login", api.LoginRequest{
		Email: "a@x.com", Password: "newpw12345",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
