package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Balakishore-16/team-155/internal/verify"
)

type fakeBackend struct {
	startErr error
	started  []string // system instructions, in order
}

func (b *fakeBackend) StartChat(_ context.Context, systemInstruction string) (Conversation, error) {
	if b.startErr != nil {
		return nil, b.startErr
	}
	b.started = append(b.started, systemInstruction)
	return &fakeConversation{seed: systemInstruction}, nil
}

type fakeConversation struct {
	seed    string
	sendErr error
	closed  bool
}

func (c *fakeConversation) Send(_ context.Context, text string) (string, error) {
	if c.sendErr != nil {
		return "", c.sendErr
	}
	return "reply to: " + text, nil
}

func (c *fakeConversation) Close() error {
	c.closed = true
	return nil
}

func sampleResult() *verify.DetectionResult {
	return &verify.DetectionResult{
		Verdict:         verify.VerdictFake,
		ConfidenceScore: 87,
		Explanation:     "No credible outlet reports this.",
		Language:        "en-US",
		RealNewsSummary: "The claim traces to a satire account.",
		Sources: []verify.CitationSource{
			{Title: "Reuters", URI: "https://reuters.com/a"},
			{Title: "Source", URI: "https://apnews.com/b"},
		},
	}
}

func TestSystemInstruction(t *testing.T) {
	got := SystemInstruction(sampleResult(), "Aliens landed in Ohio yesterday")

	for _, want := range []string{
		"Aliens landed in Ohio yesterday",
		"Fake",
		"87",
		"No credible outlet reports this.",
		"[Reuters](https://reuters.com/a)",
		"[Source](https://apnews.com/b)",
		"The claim traces to a satire account.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("system instruction missing %q:\n%s", want, got)
		}
	}
}

func TestSystemInstruction_ImageSubmission(t *testing.T) {
	res := sampleResult()
	res.RealNewsSummary = ""
	got := SystemInstruction(res, "")
	if !strings.Contains(got, "image") {
		t.Errorf("image submission not described:\n%s", got)
	}
	if strings.Contains(got, "actually happened") {
		t.Errorf("real-story section present without a summary:\n%s", got)
	}
}

func TestSession_SendAndTranscript(t *testing.T) {
	m := NewManager(&fakeBackend{})
	sess, err := m.StartSession(context.Background(), sampleResult(), "some news")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	reply, err := sess.Send(context.Background(), "why fake?")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply != "reply to: why fake?" {
		t.Errorf("reply = %q", reply)
	}

	tr := sess.Transcript()
	if len(tr) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(tr))
	}
	if tr[0].Role != RoleUser || tr[0].Text != "why fake?" {
		t.Errorf("transcript[0] = %+v", tr[0])
	}
	if tr[1].Role != RoleModel || tr[1].IsError {
		t.Errorf("transcript[1] = %+v", tr[1])
	}
}

func TestSession_SendFailureMarksErrorTurn(t *testing.T) {
	sess := &Session{conv: &fakeConversation{sendErr: errors.New("boom")}}
	_, err := sess.Send(context.Background(), "hello")
	if !errors.Is(err, verify.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable", err)
	}
	tr := sess.Transcript()
	if len(tr) != 2 {
		t.Fatalf("transcript length = %d, want user turn plus error turn", len(tr))
	}
	if !tr[1].IsError {
		t.Error("model turn not flagged as error")
	}
}

func TestSession_SendWithoutSession(t *testing.T) {
	var nilSess *Session
	if _, err := nilSess.Send(context.Background(), "hi"); !errors.Is(err, verify.ErrSessionNotInitialized) {
		t.Errorf("nil session error = %v, want ErrSessionNotInitialized", err)
	}

	closed := &Session{conv: &fakeConversation{}}
	_ = closed.Close()
	if _, err := closed.Send(context.Background(), "hi"); !errors.Is(err, verify.ErrSessionNotInitialized) {
		t.Errorf("closed session error = %v, want ErrSessionNotInitialized", err)
	}
}

func TestStartSession_ReplacesSeed(t *testing.T) {
	backend := &fakeBackend{}
	m := NewManager(backend)

	first := sampleResult()
	if _, err := m.StartSession(context.Background(), first, "first news"); err != nil {
		t.Fatal(err)
	}

	second := sampleResult()
	second.Verdict = verify.VerdictReal
	second.RealNewsSummary = ""
	sess, err := m.StartSession(context.Background(), second, "second news")
	if err != nil {
		t.Fatal(err)
	}

	// the new conversation is seeded only with the second analysis
	seed := backend.started[len(backend.started)-1]
	if strings.Contains(seed, "first news") {
		t.Errorf("new session leaked previous seed:\n%s", seed)
	}
	if !strings.Contains(seed, "second news") {
		t.Errorf("new session not seeded with latest analysis:\n%s", seed)
	}

	reply, err := sess.Send(context.Background(), "ok")
	if err != nil || reply == "" {
		t.Fatalf("Send() on replaced session: %q, %v", reply, err)
	}
}

func TestStartSession_BackendFailure(t *testing.T) {
	m := NewManager(&fakeBackend{startErr: errors.New("unreachable")})
	if _, err := m.StartSession(context.Background(), sampleResult(), "n"); !errors.Is(err, verify.ErrBackendUnavailable) {
		t.Errorf("error = %v, want ErrBackendUnavailable", err)
	}
}
