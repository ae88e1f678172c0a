package handle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Balakishore-16/team-155/internal/chat"
	"github.com/Balakishore-16/team-155/internal/verify"
)

type scriptedGen struct {
	text string
	err  error
}

func (g *scriptedGen) Generate(_ context.Context, _ verify.GenerateRequest) (verify.GenerateResult, error) {
	if g.err != nil {
		return verify.GenerateResult{}, g.err
	}
	return verify.GenerateResult{Text: g.text}, nil
}

type chatBackend struct{}

func (chatBackend) StartChat(_ context.Context, _ string) (chat.Conversation, error) {
	return chatConv{}, nil
}

type chatConv struct{}

func (chatConv) Send(_ context.Context, text string) (string, error) { return "echo: " + text, nil }
func (chatConv) Close() error                                        { return nil }

func newTestHandle(gen verify.Generator) *Handle {
	return New(verify.NewService(gen), chat.NewManager(chatBackend{}))
}

const okJSON = `{"verdict":"Real","confidenceScore":92,"explanation":"Widely reported.","language":"en"}`

func postJSON(t *testing.T, fn http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	fn(w, req)
	return w
}

func TestAnalyze_Text(t *testing.T) {
	h := newTestHandle(&scriptedGen{text: okJSON})
	w := postJSON(t, h.Analyze, `{"text":"NASA confirmed the landing"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var res verify.DetectionResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if res.Verdict != verify.VerdictReal {
		t.Errorf("verdict = %q", res.Verdict)
	}
}

func TestAnalyze_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		gen  verify.Generator
		body string
		want int
	}{
		{"empty input", &scriptedGen{text: okJSON}, `{"text":"  "}`, http.StatusBadRequest},
		{"bad image payload", &scriptedGen{text: okJSON}, `{"image_b64":"!!!"}`, http.StatusBadRequest},
		{"malformed model output", &scriptedGen{text: "no json here"}, `{"text":"x"}`, http.StatusBadGateway},
		{"backend down", &scriptedGen{err: errors.New("dial tcp")}, `{"text":"x"}`, http.StatusBadGateway},
		{"method", &scriptedGen{text: okJSON}, "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandle(tt.gen)
			var w *httptest.ResponseRecorder
			if tt.name == "method" {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				w = httptest.NewRecorder()
				h.Analyze(w, req)
			} else {
				w = postJSON(t, h.Analyze, tt.body)
			}
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestAnalyze_DataURLImage(t *testing.T) {
	h := newTestHandle(&scriptedGen{text: okJSON})
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	body, _ := json.Marshal(map[string]string{"image_b64": payload})
	w := postJSON(t, h.Analyze, string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestChat_Flow(t *testing.T) {
	h := newTestHandle(&scriptedGen{text: okJSON})

	// message before any session
	w := postJSON(t, h.ChatMessage, `{"message":"hi"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("message without session: status = %d, want 409", w.Code)
	}

	// start before any analysis
	w = postJSON(t, h.ChatStart, "")
	if w.Code != http.StatusConflict {
		t.Errorf("start without analysis: status = %d, want 409", w.Code)
	}

	if w := postJSON(t, h.Analyze, `{"text":"some news"}`); w.Code != http.StatusOK {
		t.Fatalf("analyze: %d %s", w.Code, w.Body.String())
	}
	if w := postJSON(t, h.ChatStart, ""); w.Code != http.StatusOK {
		t.Fatalf("chat start: %d %s", w.Code, w.Body.String())
	}

	w = postJSON(t, h.ChatMessage, `{"message":"why?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("chat message: %d %s", w.Code, w.Body.String())
	}
	var res chatMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	if res.Reply != "echo: why?" {
		t.Errorf("reply = %q", res.Reply)
	}
	if len(res.Transcript) != 2 {
		t.Errorf("transcript length = %d, want 2", len(res.Transcript))
	}
}
