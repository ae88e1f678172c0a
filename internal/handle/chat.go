package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/Balakishore-16/team-155/internal/chat"
	"github.com/Balakishore-16/team-155/internal/verify"
)

// ChatStart opens a follow-up session seeded with the last completed
// analysis, replacing any previous session.
func (h *Handle) ChatStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST only"})
		return
	}

	h.mu.Lock()
	res, input := h.lastRes, h.lastInput
	h.mu.Unlock()
	if res == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no completed analysis to discuss; POST /v1/analyze first"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	sess, err := h.mgr.StartSession(ctx, res, input)
	if err != nil {
		writeError(w, err)
		return
	}

	h.mu.Lock()
	old := h.session
	h.session = sess
	h.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatMessageRequest struct {
	Message string `json:"message"`
}

type chatMessageResponse struct {
	Reply      string         `json:"reply"`
	Transcript []chat.Message `json:"transcript"`
}

// ChatMessage forwards one message to the active session.
func (h *Handle) ChatMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST only"})
		return
	}
	var req chatMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json: " + err.Error()})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is empty"})
		return
	}

	h.mu.Lock()
	sess := h.session
	h.mu.Unlock()
	if sess == nil {
		writeError(w, verify.ErrSessionNotInitialized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	reply, err := sess.Send(ctx, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatMessageResponse{Reply: reply, Transcript: sess.Transcript()})
}
