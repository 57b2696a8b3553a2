package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"wedding-planner/internal/apperr"
)

type messageResponse struct {
	Message string `json:"message"`
}

// sendJSONResponse writes data as the JSON body with the given status.
func sendJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendMessage(w http.ResponseWriter, message string) {
	sendJSONResponse(w, http.StatusOK, messageResponse{Message: message})
}

// sendError maps err onto its status and an {"error": ...} body. Internal
// failures are logged and reported generically.
func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.As(err)
	if appErr.Kind == apperr.KindInternal {
		h.Logger.Error("API", fmt.Sprintf("%s %s failed: %v", r.Method, r.URL.Path, err))
	}

	body := map[string]interface{}{"error": appErr.Message}
	for k, v := range appErr.Extra {
		body[k] = v
	}
	sendJSONResponse(w, appErr.Status(), body)
}

// decodeJSON reads the request body into dst. An empty body decodes as {}.
func decodeJSON(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperr.Validation("Invalid request body")
}

// recoverer turns panics into a 500 JSON response.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.Logger.Error("API", fmt.Sprintf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack()))
				sendJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": apperr.InternalMessage})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
