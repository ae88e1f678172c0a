package verify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
)

// Service sequences one analysis: prompt, backend call, parse, conditional
// translation. One analysis either fully succeeds or yields exactly one of
// the taxonomy errors; a failed translation is the one non-fatal case and is
// recorded on the result instead.
type Service struct {
	gen   Generator
	cache ResultCache // optional
}

func NewService(gen Generator) *Service {
	return &Service{gen: gen}
}

// WithCache enables result caching keyed by input hash.
func (s *Service) WithCache(c ResultCache) *Service {
	s.cache = c
	return s
}

func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*DetectionResult, error) {
	if strings.TrimSpace(req.Text) == "" && len(req.Image) == 0 {
		return nil, ErrInvalidInput
	}

	hash := InputHash(req)
	if s.cache != nil {
		if res, ok, err := s.cache.Find(ctx, hash); err != nil {
			log.Printf("cache find %s: %v", hash[:12], err)
		} else if ok {
			return &res, nil
		}
	}

	out, err := s.gen.Generate(ctx, buildGenerateRequest(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	res, err := ParseDetection(out.Text, out.Citations)
	if err != nil {
		return nil, err
	}

	if res.NeedsTranslation() {
		s.translateResult(ctx, &res)
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, hash, res); err != nil {
			log.Printf("cache save %s: %v", hash[:12], err)
		}
	}
	return &res, nil
}

// buildGenerateRequest builds the backend payload. Image takes precedence
// over text as the primary input; both carry the same format instruction.
func buildGenerateRequest(req AnalyzeRequest) GenerateRequest {
	if len(req.Image) > 0 {
		return GenerateRequest{
			Prompt:     BuildImagePrompt(),
			Image:      req.Image,
			ImageMIME:  req.ImageMIME,
			WithSearch: true,
		}
	}
	return GenerateRequest{
		Prompt:     BuildTextPrompt(req.Text),
		WithSearch: true,
	}
}

// translateResult fills the translated fields for non-English results. The
// explanation and the real-news summary are translated independently; a
// failure leaves the field empty and records a warning.
func (s *Service) translateResult(ctx context.Context, res *DetectionResult) {
	if t, err := s.Translate(ctx, res.Explanation, res.Language); err != nil {
		log.Printf("translate explanation: %v", err)
		res.Warnings = append(res.Warnings, translationWarning(res.Language))
	} else {
		res.TranslatedExplanation = t
	}

	if res.RealNewsSummary == "" {
		return
	}
	if t, err := s.Translate(ctx, res.RealNewsSummary, res.Language); err != nil {
		log.Printf("translate summary: %v", err)
		res.Warnings = append(res.Warnings, translationWarning(res.Language))
	} else {
		res.TranslatedRealNewsSummary = t
	}
}

// Translate returns text translated into the target BCP-47 language, trimmed.
func (s *Service) Translate(ctx context.Context, text, targetLang string) (string, error) {
	out, err := s.gen.Generate(ctx, GenerateRequest{Prompt: BuildTranslationPrompt(text, targetLang)})
	if err != nil {
		return "", fmt.Errorf("%w: target %s: %v", ErrTranslationFailed, targetLang, err)
	}
	return strings.TrimSpace(out.Text), nil
}

// InputHash identifies a submission for caching: SHA-256 over the image
// bytes when present, else over the trimmed text.
func InputHash(req AnalyzeRequest) string {
	h := sha256.New()
	if len(req.Image) > 0 {
		h.Write(req.Image)
	} else {
		h.Write([]byte(strings.TrimSpace(req.Text)))
	}
	return hex.EncodeToString(h.Sum(nil))
}
