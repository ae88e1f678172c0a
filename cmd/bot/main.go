package main

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"log"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/Balakishore-16/team-155/internal/chat"
	"github.com/Balakishore-16/team-155/internal/config"
	"github.com/Balakishore-16/team-155/internal/gemini"
	"github.com/Balakishore-16/team-155/internal/store"
	"github.com/Balakishore-16/team-155/internal/telegram"
	"github.com/Balakishore-16/team-155/internal/verify"
)

func main() {
	cfg := config.Load()
	if cfg.TelegramBotToken == "" {
		log.Fatal("missing required env TELEGRAM_BOT_TOKEN")
	}

	engine := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	svc := verify.NewService(engine)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("sql.Open: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(1 * time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("db.Ping: %v", err)
		}
		cancel()

		repo := store.NewAnalysisRepo(db)
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("schema: %v", err)
		}
		cancel()
		svc = svc.WithCache(repo.ForModel(cfg.GeminiModel, time.Duration(cfg.CacheMaxAgeHours)*time.Hour))
		log.Printf("result cache enabled (max age %dh)", cfg.CacheMaxAgeHours)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal(err)
	}
	bot.Debug = false

	r := &telegram.Router{
		Bot:    bot,
		Svc:    svc,
		Chat:   chat.NewManager(engine),
		Engine: engine,
	}

	// health endpoint on the DefaultServeMux; ListenForWebhook registers there too
	http.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if db != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := "0.0.0.0:" + cfg.Port

	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		startWebhookMode(addr, bot, r, webhookURL)
	} else {
		startPollingMode(addr, bot, r)
	}
}

// ---------------- Modes -----------------

func startWebhookMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string) {
	// secret webhook path derived from the token
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		log.Fatal(err)
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		log.Fatal(err)
	}

	updates := bot.ListenForWebhook(path)

	go func() {
		for upd := range updates {
			r.HandleUpdate(upd)
		}
		log.Printf("webhook updates channel closed")
	}()

	log.Printf("webhook listening on %s%s", addr, path)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}

func startPollingMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router) {
	go func() {
		log.Printf("health server listening on %s/healthz", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Fatal(err)
		}
	}()

	runPolling(context.Background(), bot, r.HandleUpdate)
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 from Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second
	delay := baseDelay

	for {
		select {
		case <-ctx.Done():
			log.Printf("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := retryDelayFromError(err)
			if d < delay {
				d = delay
			}
			log.Printf("polling: %v (retry in %s)", err, d)
			time.Sleep(d)
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
			continue
		}
		delay = baseDelay

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}
	}
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
