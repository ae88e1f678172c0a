package handle

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Balakishore-16/team-155/internal/util"
	"github.com/Balakishore-16/team-155/internal/verify"
)

type AnalyzeRequest struct {
	Text      string `json:"text,omitempty"`
	ImageB64  string `json:"image_b64,omitempty"` // raw base64 or data: URL
	ImageMIME string `json:"image_mime,omitempty"`
}

func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST only"})
		return
	}
	var req AnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json: " + err.Error()})
		return
	}

	in := verify.AnalyzeRequest{Text: req.Text}
	if strings.TrimSpace(req.ImageB64) != "" {
		img, hintMIME, err := util.DecodeBase64MaybeDataURL(req.ImageB64)
		if err != nil || len(img) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad image_b64"})
			return
		}
		in.Image = img
		in.ImageMIME = util.PickMIME(req.ImageMIME, hintMIME, img)
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestDeadline(r))
	defer cancel()

	res, err := h.svc.Analyze(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.mu.Lock()
	h.lastRes = res
	h.lastInput = strings.TrimSpace(req.Text)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, res)
}

// requestDeadline honors X-Request-Timeout (seconds) or ?timeoutSec,
// defaulting to 180s.
func requestDeadline(r *http.Request) time.Duration {
	deadline := 180 * time.Second
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	} else if ts := r.URL.Query().Get("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	return deadline
}
