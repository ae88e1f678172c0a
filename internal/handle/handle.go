package handle

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/Balakishore-16/team-155/internal/chat"
	"github.com/Balakishore-16/team-155/internal/verify"
)

// Handle serves the analysis and chat endpoints. It keeps the last completed
// analysis and at most one live chat session; starting a new session replaces
// the previous one.
type Handle struct {
	svc *verify.Service
	mgr *chat.Manager

	mu        sync.Mutex
	lastRes   *verify.DetectionResult
	lastInput string
	session   *chat.Session
}

func New(svc *verify.Service, mgr *chat.Manager) *Handle {
	return &Handle{svc: svc, mgr: mgr}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps taxonomy errors to status codes and the one user-facing
// message each carries.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusBadGateway
	switch {
	case errors.Is(err, verify.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, verify.ErrSessionNotInitialized):
		code = http.StatusConflict
	}
	writeJSON(w, code, map[string]string{"error": verify.UserMessage(err)})
}
