package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wedding-planner/internal/models"
)

var ErrNoToken = errors.New("no session token")

// Verifier turns a raw session token into the acting user.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*ActingUser, error)
}

// SessionClaims is the payload of the session JWT issued by the login service.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionVerifier checks HS256 session tokens signed with the shared secret.
type SessionVerifier struct {
	secret []byte
}

func NewSessionVerifier(secret string) *SessionVerifier {
	return &SessionVerifier{secret: []byte(secret)}
}

func (v *SessionVerifier) Verify(ctx context.Context, raw string) (*ActingUser, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	return actingUserFromClaims(claims.Subject, claims.Role)
}

// IssueSessionToken signs a session token. The login service owns session
// issuing; this is used by the seed command and tests.
func IssueSessionToken(secret string, user ActingUser, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func actingUserFromClaims(sub, role string) (*ActingUser, error) {
	if sub == "" {
		return nil, errors.New("subject claim not found in token")
	}
	r := models.Role(strings.ToUpper(role))
	if !r.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return &ActingUser{ID: sub, Role: r}, nil
}

// ExtractToken reads the session cookie, falling back to a bearer header.
func ExtractToken(r *http.Request, cookieName string) (string, error) {
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value, nil
		}
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoToken
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("authorization header format must be 'Bearer {token}'")
	}
	return parts[1], nil
}
