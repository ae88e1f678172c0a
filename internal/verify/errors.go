package verify

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput: neither text nor image was supplied. No backend call is made.
	ErrInvalidInput = errors.New("no news text or image supplied")
	// ErrMalformedResponse: the backend's output failed parsing or schema validation.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrBackendUnavailable: any other analysis failure (network, quota, service error).
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrTranslationFailed: a translation call failed; the base result stays usable.
	ErrTranslationFailed = errors.New("translation failed")
	// ErrSessionNotInitialized: a chat message was sent with no active session.
	ErrSessionNotInitialized = errors.New("chat session not initialized")
)

// UserMessage maps an error to the single human-readable message shown to the
// end user. Unknown errors fall back to the connectivity message.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "Please provide news text or an image to analyze."
	case errors.Is(err, ErrMalformedResponse):
		return "The analysis came back in an unexpected format. Please try again."
	case errors.Is(err, ErrTranslationFailed):
		return "Translation failed; showing the English text."
	case errors.Is(err, ErrSessionNotInitialized):
		return "Start an analysis before asking follow-up questions."
	default:
		return "Could not reach the analysis service. Please check your connection and try again."
	}
}

func translationWarning(lang string) string {
	return fmt.Sprintf("translation to %s failed; showing the English text", lang)
}
