package telegram

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Balakishore-16/team-155/internal/chat"
	"github.com/Balakishore-16/team-155/internal/gemini"
	"github.com/Balakishore-16/team-155/internal/verify"
)

const analyzeTimeout = 180 * time.Second

type Router struct {
	Bot    *tgbotapi.BotAPI
	Svc    *verify.Service
	Chat   *chat.Manager
	Engine *gemini.Client
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.handleCommand(upd)
		return
	}

	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
		return
	}

	text := strings.TrimSpace(upd.Message.Text)
	if text == "" {
		return
	}

	if getMode(cid) == modeChat {
		r.forwardToSession(cid, text)
		return
	}
	r.runAnalysis(cid, verify.AnalyzeRequest{Text: text}, text)
}

func (r *Router) handleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Send me a news text or a photo of a news item and I will check whether it is fake or real, with sources.\nCommands: /health, /model, /done")
	case "health":
		r.send(cid, "OK")
	case "done":
		r.endChatMode(cid)
		r.send(cid, "Follow-up chat closed. Send another news item to analyze.")
	case "model":
		arg := strings.TrimSpace(upd.Message.CommandArguments())
		if arg == "" {
			r.send(cid, "Current model: "+r.Engine.GetModel()+"\nUsage: /model <name>")
			return
		}
		r.Engine.SetModel(arg)
		r.send(cid, "Model switched to "+r.Engine.GetModel())
	default:
		r.send(cid, "Unknown command")
	}
}

// runAnalysis performs one analysis and posts the verdict. A new analysis
// leaves chat mode; its session stays until the next follow-up replaces it.
func (r *Router) runAnalysis(cid int64, req verify.AnalyzeRequest, originalInput string) {
	r.send(cid, "Checking that for you, one moment...")

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	res, err := r.Svc.Analyze(ctx, req)
	if err != nil {
		r.send(cid, verify.UserMessage(err))
		return
	}

	lastAnalysis.Store(cid, &analysisContext{Result: res, Input: originalInput})
	clearMode(cid)

	msg := tgbotapi.NewMessage(cid, formatResult(res))
	msg.ReplyMarkup = makeFollowUpKeyboard()
	msg.DisableWebPagePreview = true
	_, _ = r.Bot.Send(msg)
}

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	cid := cb.Message.Chat.ID
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, ""))

	switch cb.Data {
	case "chat_start":
		r.startChatMode(cid)
	}
}

// startChatMode opens a session seeded with the chat's last verdict,
// replacing any previous session entirely.
func (r *Router) startChatMode(cid int64) {
	v, ok := lastAnalysis.Load(cid)
	if !ok {
		r.send(cid, "Nothing to discuss yet. Send a news item first.")
		return
	}
	ac := v.(*analysisContext)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	sess, err := r.Chat.StartSession(ctx, ac.Result, ac.Input)
	if err != nil {
		r.send(cid, verify.UserMessage(err))
		return
	}

	if old, loaded := sessions.Swap(cid, sess); loaded && old != nil {
		_ = old.(*chat.Session).Close()
	}
	setMode(cid, modeChat)
	r.send(cid, "Ask me anything about this analysis. /done to finish.")
}

func (r *Router) forwardToSession(cid int64, text string) {
	v, ok := sessions.Load(cid)
	if !ok {
		clearMode(cid)
		r.send(cid, verify.UserMessage(verify.ErrSessionNotInitialized))
		return
	}
	sess := v.(*chat.Session)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	reply, err := sess.Send(ctx, text)
	if err != nil {
		r.send(cid, verify.UserMessage(err))
		return
	}
	r.send(cid, reply)
}

func (r *Router) endChatMode(cid int64) {
	clearMode(cid)
	if v, loaded := sessions.LoadAndDelete(cid); loaded && v != nil {
		_ = v.(*chat.Session).Close()
	}
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, truncate(text, 3900))
	_, _ = r.Bot.Send(msg)
}

// truncate caps text at max bytes without splitting a UTF-8 rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "…"
}
