package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "craft-marketplace"
)

func signToken(t *testing.T, secret, issuer, uid, role string, ttl time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID: uid,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

// echoUser records what the downstream handler sees in the request context.
func echoUser(uid, role *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*uid = UserID(r)
		*role = Role(r)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthRequire(t *testing.T) {
	auth := NewAuth(testSecret, testIssuer)

	t.Run("valid_token", func(t *testing.T) {
		var uid, role string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, testIssuer, "u1", "admin", time.Hour))
		rec := httptest.NewRecorder()

		auth.Require(echoUser(&uid, &role)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "u1", uid)
		assert.Equal(t, "admin", role)
	})

	t.Run("empty_role_defaults_to_user", func(t *testing.T) {
		var uid, role string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, testIssuer, "u1", "", time.Hour))
		rec := httptest.NewRecorder()

		auth.Require(echoUser(&uid, &role)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "user", role)
	})

	rejects := []struct {
		name  string
		token string
	}{
		{"missing_header", ""},
		{"wrong_secret", signToken(t, "other-secret", testIssuer, "u1", "user", time.Hour)},
		{"wrong_issuer", signToken(t, testSecret, "someone-else", "u1", "user", time.Hour)},
		{"expired_beyond_leeway", signToken(t, testSecret, testIssuer, "u1", "user", -2*time.Minute)},
		{"missing_uid", signToken(t, testSecret, testIssuer, "  ", "user", time.Hour)},
	}
	for _, tc := range rejects {
		t.Run(tc.name, func(t *testing.T) {
			var uid, role string
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()

			auth.Require(echoUser(&uid, &role)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, uid)
		})
	}

	t.Run("expiry_within_leeway_passes", func(t *testing.T) {
		var uid, role string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, testIssuer, "u1", "user", -10*time.Second))
		rec := httptest.NewRecorder()

		auth.Require(echoUser(&uid, &role)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("rejects_non_hs256_alg", func(t *testing.T) {
		// alg=none style tokens must never validate.
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		var uid, role string
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()

		auth.Require(echoUser(&uid, &role)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserIDWithoutContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, UserID(req))
	assert.Empty(t, Role(req))
}
