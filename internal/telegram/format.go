package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Balakishore-16/team-155/internal/verify"
)

func verdictBadge(v verify.Verdict) string {
	switch v {
	case verify.VerdictFake:
		return "🔴 FAKE"
	case verify.VerdictReal:
		return "🟢 REAL"
	default:
		return "🟡 UNCERTAIN"
	}
}

func formatResult(res *verify.DetectionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — confidence %.0f/100\n\n", verdictBadge(res.Verdict), res.ConfidenceScore)
	b.WriteString(res.Explanation)
	b.WriteString("\n")

	if res.TranslatedExplanation != "" {
		b.WriteString("\n")
		b.WriteString(res.TranslatedExplanation)
		b.WriteString("\n")
	}

	// the real-story panel shows whenever the model supplied a summary
	if res.RealNewsSummary != "" {
		b.WriteString("\n📰 What actually happened:\n")
		b.WriteString(res.RealNewsSummary)
		b.WriteString("\n")
		if res.TranslatedRealNewsSummary != "" {
			b.WriteString("\n")
			b.WriteString(res.TranslatedRealNewsSummary)
			b.WriteString("\n")
		}
	}

	if len(res.Sources) > 0 {
		b.WriteString("\n🔗 Sources:\n")
		for i, src := range res.Sources {
			fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, src.Title, src.URI)
		}
	}

	for _, warn := range res.Warnings {
		b.WriteString("\n⚠️ " + warn + "\n")
	}
	return b.String()
}

func makeFollowUpKeyboard() tgbotapi.InlineKeyboardMarkup {
	btn := tgbotapi.NewInlineKeyboardButtonData("💬 Ask a follow-up", "chat_start")
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn),
	)
}
