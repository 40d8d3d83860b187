package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mvalens/leadkeeper/internal/common"
	contracts "github.com/mvalens/leadkeeper/internal/contracts/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	userID string
	err    error
}

func (s *stubValidator) UserIDFromToken(token string) (string, error) {
	return s.userID, s.err
}

func callWithAuth(t *testing.T, v tokenValidator, authorization string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var seenUserID string
	handler := withAuth(v, func(w http.ResponseWriter, r *http.Request) {
		seenUserID = userID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec, seenUserID
}

func TestWithAuth_ValidToken(t *testing.T) {
	rec, seenUserID := callWithAuth(t, &stubValidator{userID: "u1"}, "Bearer good-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", seenUserID)
}

func TestWithAuth_MissingHeader(t *testing.T) {
	rec, _ := callWithAuth(t, &stubValidator{userID: "u1"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuth_NotBearer(t *testing.T) {
	rec, _ := callWithAuth(t, &stubValidator{userID: "u1"}, "Basic dXNlcjpwdw==")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuth_ExpiredToken(t *testing.T) {
	rec, _ := callWithAuth(t, &stubValidator{err: errors.New("token has invalid claims: token is expired")}, "Bearer stale")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body contracts.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, common.ErrTokenExpired.Error(), body.Error)
}

func TestWithAuth_InvalidToken(t *testing.T) {
	rec, _ := callWithAuth(t, &stubValidator{err: errors.New("signature is invalid")}, "Bearer bogus")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body contracts.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, common.ErrInvalidToken.Error(), body.Error)
}

func TestUserID_AbsentFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, userID(req.Context()))
}
