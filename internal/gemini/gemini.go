// Package gemini is the AI backend: one-shot generation with web-search
// grounding for analysis and translation, and stateful chat sessions for
// follow-up questions.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/Balakishore-16/team-155/internal/chat"
	"github.com/Balakishore-16/team-155/internal/verify"
)

type Client struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Client {
	return &Client{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (c *Client) Name() string      { return "gemini" }
func (c *Client) GetModel() string  { return c.Model }
func (c *Client) SetModel(m string) { c.Model = strings.TrimSpace(m) }

func (c *Client) newClient(ctx context.Context) (*genai.Client, error) {
	if c.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// Generate issues one generation call. Transient failures are retried up to
// 3 times with linear backoff.
func (c *Client) Generate(ctx context.Context, req verify.GenerateRequest) (verify.GenerateResult, error) {
	cl, err := c.newClient(ctx)
	if err != nil {
		return verify.GenerateResult{}, err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	}
	if req.WithSearch {
		// JSON response mode is unavailable together with search grounding,
		// hence the fence-tolerant parsing downstream.
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	parts := []*genai.Part{{Text: req.Prompt}}
	if len(req.Image) > 0 {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: req.ImageMIME, Data: req.Image}})
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := cl.Models.GenerateContent(ctx, strings.TrimSpace(c.Model), contents, cfg)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
			continue
		}
		txt := firstText(resp)
		if txt == "" {
			return verify.GenerateResult{}, fmt.Errorf("gemini: empty response")
		}
		return verify.GenerateResult{
			Text:      txt,
			Citations: extractCitations(resp),
		}, nil
	}
	return verify.GenerateResult{}, lastErr
}

// StartChat opens a backend conversation with a fixed system instruction.
// History lives in the backend chat object.
func (c *Client) StartChat(ctx context.Context, systemInstruction string) (chat.Conversation, error) {
	cl, err := c.newClient(ctx)
	if err != nil {
		return nil, err
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}
	cs, err := cl.Chats.Create(ctx, strings.TrimSpace(c.Model), cfg, nil)
	if err != nil {
		return nil, err
	}
	return &conversation{cs: cs}, nil
}

type conversation struct {
	cs *genai.Chat
}

func (c *conversation) Send(ctx context.Context, text string) (string, error) {
	resp, err := c.cs.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", err
	}
	out := firstText(resp)
	if out == "" {
		return "", fmt.Errorf("gemini chat: empty response")
	}
	return out, nil
}

// Close releases nothing today (the SDK client is a plain HTTP client) but
// keeps the session lifecycle explicit for the callers that replace sessions.
func (c *conversation) Close() error {
	c.cs = nil
	return nil
}

// --------------------------- helpers ---------------------------

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p != nil && p.Text != "" {
				return p.Text
			}
		}
	}
	return ""
}

// extractCitations maps search-grounding chunks to citation sources, in
// response order. Chunks without a web reference are skipped; empty titles
// get the default fallback downstream.
func extractCitations(resp *genai.GenerateContentResponse) []verify.CitationSource {
	if resp == nil {
		return nil
	}
	var out []verify.CitationSource
	for _, cand := range resp.Candidates {
		if cand == nil || cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			out = append(out, verify.CitationSource{
				Title: chunk.Web.Title,
				URI:   chunk.Web.URI,
			})
		}
	}
	return out
}
