package verify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Balakishore-16/team-155/internal/util"
)

// ParseDetection turns the backend's raw response text plus grounding
// citations into a DetectionResult. The response may be wrapped in a
// triple-backtick fence, with or without a language tag; both parse the same
// as the bare JSON. Schema violations are ErrMalformedResponse.
func ParseDetection(raw string, citations []CitationSource) (DetectionResult, error) {
	txt := util.StripCodeFences(raw)
	if txt == "" {
		return DetectionResult{}, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var payload struct {
		Verdict         string   `json:"verdict"`
		ConfidenceScore *float64 `json:"confidenceScore"`
		Explanation     string   `json:"explanation"`
		Language        string   `json:"language"`
		RealNewsSummary string   `json:"realNewsSummary"`
	}
	if err := json.Unmarshal([]byte(txt), &payload); err != nil {
		return DetectionResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	verdict := Verdict(strings.TrimSpace(payload.Verdict))
	if !verdict.Valid() {
		return DetectionResult{}, fmt.Errorf("%w: verdict %q not in {Fake, Real, Uncertain}", ErrMalformedResponse, payload.Verdict)
	}
	if payload.ConfidenceScore == nil {
		return DetectionResult{}, fmt.Errorf("%w: confidenceScore missing", ErrMalformedResponse)
	}
	score := *payload.ConfidenceScore
	if score < 0 || score > 100 {
		return DetectionResult{}, fmt.Errorf("%w: confidenceScore %v out of [0, 100]", ErrMalformedResponse, score)
	}
	if strings.TrimSpace(payload.Explanation) == "" {
		return DetectionResult{}, fmt.Errorf("%w: explanation missing", ErrMalformedResponse)
	}
	if strings.TrimSpace(payload.Language) == "" {
		return DetectionResult{}, fmt.Errorf("%w: language missing", ErrMalformedResponse)
	}

	return DetectionResult{
		Verdict:         verdict,
		ConfidenceScore: score,
		Explanation:     payload.Explanation,
		Language:        strings.TrimSpace(payload.Language),
		// Passed through as produced: presence is the model's assertion,
		// display code ties it to the Fake verdict.
		RealNewsSummary: payload.RealNewsSummary,
		Sources:         extractSources(citations),
	}, nil
}

// extractSources keeps citations that reference a web page, in backend order,
// substituting DefaultSourceTitle for empty titles. No deduplication.
func extractSources(citations []CitationSource) []CitationSource {
	var out []CitationSource
	for _, c := range citations {
		if strings.TrimSpace(c.URI) == "" {
			continue
		}
		title := strings.TrimSpace(c.Title)
		if title == "" {
			title = DefaultSourceTitle
		}
		out = append(out, CitationSource{Title: title, URI: c.URI})
	}
	return out
}
