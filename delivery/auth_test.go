package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"authsphere/domain"
	"authsphere/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, f *fixture, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.app.ServeHTTP(w, req)
	return w
}

func TestResetRequestResponseIdenticalForUnknownEmail(t *testing.T) {
	f := newFixture(t, nil)
	f.createUser(t, "jane@example.com", "jane", "correct-horse9", false)

	known := postJSON(t, f, "/password/reset/", map[string]string{"email": "jane@example.com"})
	unknown := postJSON(t, f, "/password/reset/", map[string]string{"email": "nobody@example.com"})

	// Status and body must be byte-identical so the endpoint cannot be used
	// to probe which addresses are registered.
	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, known.Code, unknown.Code)
	assert.JSONEq(t, known.Body.String(), unknown.Body.String())

	// Only the registered address produced an OTP row.
	assert.EqualValues(t, 1, f.otpCount(t))
}

func TestResetRequestUnknownEmailCreatesNoOTP(t *testing.T) {
	f := newFixture(t, nil)
	f.createUser(t, "jane@example.com", "jane", "correct-horse9", false)

	w := postJSON(t, f, "/password/reset/", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, f.otpCount(t))
}

func TestResetFlowEndToEnd(t *testing.T) {
	f := newFixture(t, nil)
	user := f.createUser(t, "jane@example.com", "jane", "correct-horse9", false)

	w := postJSON(t, f, "/password/reset/", map[string]string{"email": "jane@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var otp domain.OTP
	require.NoError(t, f.db.First(&otp, "user_uuid = ?", user.UUID).Error)

	w = postJSON(t, f, "/password/reset/verify-otp/", map[string]string{
		"email":    "jane@example.com",
		"otp_code": otp.Code,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, f, "/password/reset/confirm/", map[string]string{
		"email":            "jane@example.com",
		"otp_code":         otp.Code,
		"new_password":     "battery-staple7",
		"confirm_password": "battery-staple7",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// The new credential works end to end.
	w = postJSON(t, f, "/auth/jwt/create/", map[string]string{
		"email":    "jane@example.com",
		"password": "battery-staple7",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifyErrorCodes(t *testing.T) {
	f := newFixture(t, nil)
	f.createUser(t, "jane@example.com", "jane", "correct-horse9", false)

	w := postJSON(t, f, "/password/reset/verify-otp/", map[string]string{
		"email":    "nobody@example.com",
		"otp_code": "123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")

	w = postJSON(t, f, "/password/reset/verify-otp/", map[string]string{
		"email":    "jane@example.com",
		"otp_code": "123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NO_ACTIVE_OTP")
}

func TestConfirmMismatchDoesNotTouchOTP(t *testing.T) {
	f := newFixture(t, nil)
	user := f.createUser(t, "jane@example.com", "jane", "correct-horse9", false)
	require.Equal(t, http.StatusOK, postJSON(t, f, "/password/reset/", map[string]string{"email": "jane@example.com"}).Code)

	var otp domain.OTP
	require.NoError(t, f.db.First(&otp, "user_uuid = ?", user.UUID).Error)

	w := postJSON(t, f, "/password/reset/confirm/", map[string]string{
		"email":            "jane@example.com",
		"otp_code":         otp.Code,
		"new_password":     "battery-staple7",
		"confirm_password": "other-staple7",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PASSWORD_MISMATCH")

	require.NoError(t, f.db.First(&otp, otp.ID).Error)
	assert.False(t, otp.Used)
}

func TestValidationErrorsAggregatePerField(t *testing.T) {
	f := newFixture(t, nil)

	w := postJSON(t, f, "/auth/users/", map[string]string{
		"email":            "not-an-email",
		"username":         "bad name!",
		"password":         "correct-horse9",
		"confirm_password": "correct-horse9",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Code    string            `json:"code"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	// Both bad fields are reported in the same response.
	assert.Contains(t, resp.Errors, "Email")
	assert.Contains(t, resp.Errors, "Username")
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string, middleware.Rule) (bool, int, error) {
	return false, 0, nil
}

func TestRateLimitedRequestRunsNoBusinessLogic(t *testing.T) {
	f := newFixture(t, denyAll{})
	f.createUser(t, "jane@example.com", "jane", "correct-horse9", false)

	for _, path := range []string{
		"/password/reset/",
		"/password/reset/verify-otp/",
		"/password/reset/confirm/",
	} {
		w := postJSON(t, f, path, map[string]string{
			"email":            "jane@example.com",
			"otp_code":         "123456",
			"new_password":     "battery-staple7",
			"confirm_password": "battery-staple7",
		})
		assert.Equal(t, http.StatusTooManyRequests, w.Code, path)
		assert.Contains(t, w.Body.String(), "RATE_LIMITED", path)
	}

	// No OTP rows were created or mutated behind the limiter.
	assert.EqualValues(t, 0, f.otpCount(t))
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t, nil)

	w := postJSON(t, f, "/auth/users/", map[string]string{
		"email":            "Jane@Example.com",
		"username":         "jane.doe",
		"password":         "correct-horse9",
		"confirm_password": "correct-horse9",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "correct-horse9")

	w = postJSON(t, f, "/auth/jwt/create/", map[string]string{
		"email":    "jane@example.com",
		"password": "correct-horse9",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	f := newFixture(t, nil)
	f.createUser(t, "jane@example.com", "jane", "correct-horse9", false)

	w := postJSON(t, f, "/auth/users/", map[string]string{
		"email":            "jane@example.com",
		"username":         "jane2",
		"password":         "correct-horse9",
		"confirm_password": "correct-horse9",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
}

func TestRegisterWeakPasswordNotConflict(t *testing.T) {
	f := newFixture(t, nil)

	w := postJSON(t, f, "/auth/users/", map[string]string{
		"email":            "jane@example.com",
		"username":         "jane",
		"password":         "123456789",
		"confirm_password": "123456789",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "WEAK_PASSWORD")
}
