package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/Balakishore-16/team-155/internal/chat"
	"github.com/Balakishore-16/team-155/internal/config"
	"github.com/Balakishore-16/team-155/internal/gemini"
	"github.com/Balakishore-16/team-155/internal/handle"
	"github.com/Balakishore-16/team-155/internal/store"
	"github.com/Balakishore-16/team-155/internal/verify"
)

func main() {
	cfg := config.Load()

	engine := gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	svc := verify.NewService(engine)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db = openDB(cfg.DatabaseURL)
		repo := store.NewAnalysisRepo(db)
		{
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := repo.EnsureSchema(ctx); err != nil {
				log.Fatalf("schema: %v", err)
			}
			cancel()
		}
		svc = svc.WithCache(repo.ForModel(cfg.GeminiModel, time.Duration(cfg.CacheMaxAgeHours)*time.Hour))
		log.Printf("result cache enabled (max age %dh)", cfg.CacheMaxAgeHours)
	}

	h := handle.New(svc, chat.NewManager(engine))

	http.HandleFunc("/healthz", healthz(db))
	http.HandleFunc("/v1/analyze", h.Analyze)
	http.HandleFunc("/v1/chat/start", h.ChatStart)
	http.HandleFunc("/v1/chat/message", h.ChatMessage)

	addr := "0.0.0.0:" + cfg.Port
	log.Printf("listening on %s (model %s)", addr, cfg.GeminiModel)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func openDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("sql.Open: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(1 * time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db.Ping: %v", err)
	}
	log.Printf("db connected")
	return db
}

func healthz(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
