package main

import (
	"context"
	"log"
	"net/http"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/chat"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/config"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/database"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/router"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/settings"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	queries := database.New(pool)

	hub := ws.NewHub()
	go hub.Run()

	cache := settings.NewCache(queries)

	var completer chat.Completer
	if cfg.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not set, chat assistant disabled")
		completer = chat.Disabled{}
	} else {
		completer, err = chat.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Unable to init Gemini client: %v", err)
		}
	}
	assistant := chat.NewAssistant(completer, cache, queries)

	r := router.New(cfg, queries, cache, assistant, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
