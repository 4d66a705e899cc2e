package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testInfo struct {
	Role string `json:"role"`
}

func TestGenerateBearerToken(t *testing.T) {
	token, err := GenerateBearerToken(testInfo{Role: "gorush"}, time.Hour, "secret")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "Bearer "))
}

func TestVerifyJWTBearerToken_RoundTrip(t *testing.T) {
	token, err := GenerateBearerToken(testInfo{Role: "moh"}, time.Hour, "secret")
	require.NoError(t, err)

	info, err := VerifyJWTBearerToken[testInfo](token, "secret")

	require.NoError(t, err)
	assert.Equal(t, "moh", info.Role)
}

func TestVerifyJWTBearerToken_WrongSecret(t *testing.T) {
	token, err := GenerateBearerToken(testInfo{Role: "moh"}, time.Hour, "secret")
	require.NoError(t, err)

	_, err = VerifyJWTBearerToken[testInfo](token, "other")
	assert.Error(t, err)
}

func TestVerifyJWTBearerToken_Expired(t *testing.T) {
	token, err := GenerateBearerToken(testInfo{Role: "moh"}, -time.Minute, "secret")
	require.NoError(t, err)

	_, err = VerifyJWTBearerToken[testInfo](token, "secret")
	assert.Error(t, err)
}

func TestVerifyJWTBearerToken_Malformed(t *testing.T) {
	_, err := VerifyJWTBearerToken[testInfo]("not-a-bearer-token", "secret")
	assert.Error(t, err)

	_, err = VerifyJWTBearerToken[testInfo]("Basic abc123", "secret")
	assert.Error(t, err)
}

func TestAuthBearerMiddleware_ValidToken(t *testing.T) {
	token, err := GenerateBearerToken(testInfo{Role: "gorush"}, time.Hour, "secret")
	require.NoError(t, err)

	middleware := AuthBearerMiddlewareInit[testInfo]("secret")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := GetTokenInfo[testInfo](r)
		require.NotNil(t, info)
		assert.Equal(t, "gorush", info.Role)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()

	middleware(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthBearerMiddleware_InvalidToken(t *testing.T) {
	middleware := AuthBearerMiddlewareInit[testInfo]("secret")
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	for _, header := range []string{"", "invalid", "Bearer wrongtoken"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()

		middleware(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestGetTokenInfo_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetTokenInfo[testInfo](req))
}
