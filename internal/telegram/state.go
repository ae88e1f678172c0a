package telegram

import (
	"sync"

	"github.com/Balakishore-16/team-155/internal/verify"
)

const modeChat = "chat"

var chatMode sync.Map // chatID -> string: "" | "chat"

func setMode(chatID int64, mode string) { chatMode.Store(chatID, mode) }
func getMode(chatID int64) string {
	if v, ok := chatMode.Load(chatID); ok {
		if s, _ := v.(string); s != "" {
			return s
		}
	}
	return ""
}
func clearMode(chatID int64) { chatMode.Delete(chatID) }

// analysisContext is what a follow-up session gets seeded with.
type analysisContext struct {
	Result *verify.DetectionResult
	Input  string // empty for image submissions
}

var (
	lastAnalysis sync.Map // chatID -> *analysisContext
	sessions     sync.Map // chatID -> *chat.Session
)
