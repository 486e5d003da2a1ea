package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_NoopModeUsesTokenAsUserID(t *testing.T) {
	verifier, err := NewVerifier(Config{Mode: ModeNoop})
	require.NoError(t, err)

	var got AuthenticatedUser
	h := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer user_123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_123", got.UserID)
}

func TestMiddleware_RejectsMissingOrMalformedHeader(t *testing.T) {
	verifier, err := NewVerifier(Config{Mode: ModeNoop})
	require.NoError(t, err)

	h := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	for _, header := range []string{"", "Basic abc", "Bearer   "} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestNewVerifier_UnknownMode(t *testing.T) {
	_, err := NewVerifier(Config{Mode: "magic"})
	assert.Error(t, err)
}

func TestNewVerifier_ClerkRequiresJWKS(t *testing.T) {
	_, err := NewVerifier(Config{Mode: ModeClerk})
	assert.Error(t, err)
}

func TestUserFromClaims(t *testing.T) {
	exp := time.Now().Add(time.Minute).Truncate(time.Second)
	claims := jwt.MapClaims{"sub": "user_1", "sid": "sess_1", "exp": float64(exp.Unix())}

	u, err := userFromClaims(claims, "tok")
	require.NoError(t, err)
	assert.Equal(t, AuthenticatedUser{UserID: "user_1", SessionID: "sess_1", ExpiresAt: exp.Unix(), Token: "tok"}, u)

	_, err = userFromClaims(jwt.MapClaims{"sid": "sess_1"}, "tok")
	assert.ErrorIs(t, err, errMissingSubject)
}
