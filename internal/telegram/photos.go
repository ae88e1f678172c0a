package telegram

import (
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Balakishore-16/team-155/internal/util"
	"github.com/Balakishore-16/team-155/internal/verify"
)

// acceptPhoto downloads the largest rendition of a photo message and runs
// the analysis on it. Telegram orders Photo sizes ascending.
func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	ph := msg.Photo[len(msg.Photo)-1]

	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.send(cid, verify.UserMessage(err))
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	imgBytes, err := download(url)
	if err != nil {
		r.send(cid, verify.UserMessage(err))
		return
	}

	r.runAnalysis(cid, verify.AnalyzeRequest{
		Image:     imgBytes,
		ImageMIME: util.PickMIME("", "", imgBytes),
	}, "")
}

func download(url string) ([]byte, error) {
	resp, err := httpClient().Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
