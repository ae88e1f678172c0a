package verify

import (
	"context"
	"strings"
)

// Verdict is the authenticity classification of one analysis.
type Verdict string

const (
	VerdictFake      Verdict = "Fake"
	VerdictReal      Verdict = "Real"
	VerdictUncertain Verdict = "Uncertain"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictFake, VerdictReal, VerdictUncertain:
		return true
	}
	return false
}

// DefaultSourceTitle replaces empty citation titles coming from the backend.
const DefaultSourceTitle = "Source"

// CitationSource is a web source the model used to ground its verdict.
type CitationSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// DetectionResult is the outcome of analyzing one news text or image.
// RealNewsSummary is expected only for Fake verdicts; the parser passes it
// through as the model produced it, display code decides what to show.
type DetectionResult struct {
	Verdict         Verdict          `json:"verdict"`
	ConfidenceScore float64          `json:"confidenceScore"`
	Explanation     string           `json:"explanation"`
	Language        string           `json:"language"`
	RealNewsSummary string           `json:"realNewsSummary,omitempty"`
	Sources         []CitationSource `json:"sources,omitempty"`

	TranslatedExplanation     string `json:"translatedExplanation,omitempty"`
	TranslatedRealNewsSummary string `json:"translatedRealNewsSummary,omitempty"`

	// Warnings carries user-facing notes about non-fatal problems,
	// currently only failed translations.
	Warnings []string `json:"warnings,omitempty"`
}

// NeedsTranslation reports whether the detected language calls for a
// translated explanation. Any BCP-47 tag starting with "en" counts as English.
func (r *DetectionResult) NeedsTranslation() bool {
	return !strings.HasPrefix(strings.ToLower(strings.TrimSpace(r.Language)), "en")
}

// AnalyzeRequest is one user submission. Image takes precedence over Text
// when both are present.
type AnalyzeRequest struct {
	Text      string
	Image     []byte
	ImageMIME string
}

// GenerateRequest is a single call to the AI backend.
type GenerateRequest struct {
	Prompt     string
	Image      []byte
	ImageMIME  string
	WithSearch bool
}

// GenerateResult is the backend's raw output: response text plus any
// grounding citations, in backend order. Citation titles may be empty.
type GenerateResult struct {
	Text      string
	Citations []CitationSource
}

// Generator is the AI backend boundary.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// ResultCache stores completed results keyed by input hash. Implementations
// may expire entries; a miss is (zero, false, nil).
type ResultCache interface {
	Find(ctx context.Context, inputHash string) (DetectionResult, bool, error)
	Save(ctx context.Context, inputHash string, res DetectionResult) error
}
