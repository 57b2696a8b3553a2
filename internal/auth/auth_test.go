package auth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/logger"
	"wedding-planner/internal/models"
)

const secret = "test-secret"

func TestSessionVerifierRoundTrip(t *testing.T) {
	token, err := IssueSessionToken(secret, ActingUser{ID: "u1", Role: models.RoleVendor}, time.Hour)
	require.NoError(t, err)

	user, err := NewSessionVerifier(secret).Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &ActingUser{ID: "u1", Role: models.RoleVendor}, user)
}

func TestSessionVerifierRejects(t *testing.T) {
	v := NewSessionVerifier(secret)

	wrongKey, _ := IssueSessionToken("other", ActingUser{ID: "u1", Role: models.RoleCouple}, time.Hour)
	_, err := v.Verify(context.Background(), wrongKey)
	assert.Error(t, err)

	expired, _ := IssueSessionToken(secret, ActingUser{ID: "u1", Role: models.RoleCouple}, -time.Minute)
	_, err = v.Verify(context.Background(), expired)
	assert.Error(t, err)

	badRole, _ := IssueSessionToken(secret, ActingUser{ID: "u1", Role: "OWNER"}, time.Hour)
	_, err = v.Verify(context.Background(), badRole)
	assert.Error(t, err)
}

func TestOIDCVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	issuer := "https://id.example.com"
	v := NewOIDCVerifierWithKeySet(issuer, &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}, "planner")

	claims := jwt.MapClaims{
		"iss":  issuer,
		"sub":  "oidc-user",
		"aud":  "planner",
		"exp":  time.Now().Add(time.Hour).Unix(),
		"iat":  time.Now().Unix(),
		"role": "couple",
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)

	user, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "oidc-user", user.ID)
	assert.Equal(t, models.RoleCouple, user.Role)

	claims["aud"] = "someone-else"
	raw, _ = jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	_, err = v.Verify(context.Background(), raw)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	a := NewAuthenticator("session", logger.Nop(), NewSessionVerifier(secret))
	var seen *ActingUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	})

	token, _ := IssueSessionToken(secret, ActingUser{ID: "u1", Role: models.RoleCouple}, time.Hour)

	t.Run("cookie", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/api/guests", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		rec := httptest.NewRecorder()
		a.Required(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "u1", seen.ID)
	})

	t.Run("bearer", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/api/guests", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		a.Required(next).ServeHTTP(httptest.NewRecorder(), req)
		require.NotNil(t, seen)
	})

	t.Run("missing", func(t *testing.T) {
		seen = nil
		rec := httptest.NewRecorder()
		a.Required(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guests", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		assert.Nil(t, seen)
	})

	t.Run("optional without session", func(t *testing.T) {
		seen = &ActingUser{}
		rec := httptest.NewRecorder()
		a.Optional(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, seen)
	})
}

func TestActingUserHelpers(t *testing.T) {
	var nobody *ActingUser
	assert.False(t, nobody.IsAdmin())
	assert.True(t, (&ActingUser{ID: "a", Role: models.RoleAdmin}).IsAdmin())
	assert.True(t, (&ActingUser{ID: "v", Role: models.RoleVendor}).Has(models.RoleVendor))
}
