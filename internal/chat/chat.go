// Package chat holds follow-up conversations about a completed analysis.
// Conversation history lives on the AI backend; a Session only keeps a local
// transcript for display. Sessions are owned by the caller and fully replaced
// when a new one is started, never merged.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/Balakishore-16/team-155/internal/verify"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one transcript entry. IsError marks a model turn that surfaced
// a failure instead of a real reply. The transcript is append-only.
type Message struct {
	Role    Role   `json:"role"`
	Text    string `json:"text"`
	IsError bool   `json:"isError,omitempty"`
}

// Conversation is the backend's stateful session handle.
type Conversation interface {
	Send(ctx context.Context, text string) (string, error)
	Close() error
}

// Backend creates backend conversations with a fixed system instruction.
type Backend interface {
	StartChat(ctx context.Context, systemInstruction string) (Conversation, error)
}

type Manager struct {
	backend Backend
}

func NewManager(b Backend) *Manager {
	return &Manager{backend: b}
}

// StartSession opens a conversation seeded with the given analysis. The
// caller owns the returned session and should Close any session it replaces.
func (m *Manager) StartSession(ctx context.Context, res *verify.DetectionResult, originalNews string) (*Session, error) {
	conv, err := m.backend.StartChat(ctx, SystemInstruction(res, originalNews))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", verify.ErrBackendUnavailable, err)
	}
	return &Session{conv: conv}, nil
}

// Session is one live conversation. The intended usage is a single in-flight
// message at a time, enforced by the caller.
type Session struct {
	conv       Conversation
	transcript []Message
}

// Send forwards one user message and returns the reply verbatim. Calling
// Send on a nil or closed session is a contract violation and fails with
// ErrSessionNotInitialized.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	if s == nil || s.conv == nil {
		return "", verify.ErrSessionNotInitialized
	}
	s.transcript = append(s.transcript, Message{Role: RoleUser, Text: text})

	reply, err := s.conv.Send(ctx, text)
	if err != nil {
		err = fmt.Errorf("%w: %v", verify.ErrBackendUnavailable, err)
		s.transcript = append(s.transcript, Message{Role: RoleModel, Text: verify.UserMessage(err), IsError: true})
		return "", err
	}
	s.transcript = append(s.transcript, Message{Role: RoleModel, Text: reply})
	return reply, nil
}

// Transcript returns a copy of the messages exchanged so far.
func (s *Session) Transcript() []Message {
	if s == nil {
		return nil
	}
	return append([]Message(nil), s.transcript...)
}

func (s *Session) Close() error {
	if s == nil || s.conv == nil {
		return nil
	}
	err := s.conv.Close()
	s.conv = nil
	return err
}

// SystemInstruction summarizes a completed analysis as the fixed context for
// a follow-up conversation.
func SystemInstruction(res *verify.DetectionResult, originalNews string) string {
	var b strings.Builder
	b.WriteString("You are a fact-checking assistant answering follow-up questions about a news authenticity analysis you already performed.\n\n")

	if t := strings.TrimSpace(originalNews); t != "" {
		fmt.Fprintf(&b, "Analyzed news item: %s\n", t)
	} else {
		b.WriteString("Analyzed news item: submitted as an image.\n")
	}
	fmt.Fprintf(&b, "Verdict: %s (confidence %.0f/100)\n", res.Verdict, res.ConfidenceScore)
	fmt.Fprintf(&b, "Explanation: %s\n", res.Explanation)

	if len(res.Sources) > 0 {
		refs := make([]string, 0, len(res.Sources))
		for _, src := range res.Sources {
			refs = append(refs, fmt.Sprintf("[%s](%s)", src.Title, src.URI))
		}
		fmt.Fprintf(&b, "Sources: %s\n", strings.Join(refs, ", "))
	}
	if res.RealNewsSummary != "" {
		fmt.Fprintf(&b, "What reliable sources say actually happened: %s\n", res.RealNewsSummary)
	}

	b.WriteString("\nAnswer the user's questions concisely, grounded in this analysis. Say so plainly when something is outside what the analysis covers.")
	return b.String()
}
