package auth

import (
	"encoding/json"
	"fmt"
	"net/http"

	"wedding-planner/internal/logger"
)

// Authenticator resolves the acting user of each request.
type Authenticator struct {
	verifiers []Verifier
	cookie    string
	log       *logger.Logger
}

func NewAuthenticator(cookie string, log *logger.Logger, verifiers ...Verifier) *Authenticator {
	return &Authenticator{verifiers: verifiers, cookie: cookie, log: log}
}

func (a *Authenticator) authenticate(r *http.Request) (*ActingUser, error) {
	raw, err := ExtractToken(r, a.cookie)
	if err != nil {
		return nil, err
	}
	var lastErr error
	for _, v := range a.verifiers {
		user, err := v.Verify(r.Context(), raw)
		if err == nil {
			return user, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no verifier configured")
	}
	return nil, lastErr
}

// Required rejects requests without a valid session.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(r)
		if err != nil {
			if err != ErrNoToken {
				a.log.LogSecurity("AUTH", fmt.Sprintf("%s %s rejected: %v", r.Method, r.URL.Path, err))
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Optional attaches the user when a valid session is present.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := a.authenticate(r); err == nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}
