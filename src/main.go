package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"loc8r/src/config"
	"loc8r/src/db"
	"loc8r/src/handlers"
)

func main() {
	cfg := config.Load()

	store, err := db.NewElasticStore(cfg.ElasticURL)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if err := store.CreateIndexWithMapping(cfg.Index, "./src/templates/schema.json"); err != nil {
		log.Fatal(err)
	}

	if cfg.RedisAddr != "" {
		cache, err := db.NewQueryCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			log.Printf("Redis unavailable, running without query cache: %s", err)
		} else {
			store.Cache = cache
		}
	}

	tmpl, err := handlers.LoadTemplates("./src/templates")
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handlers.NewRouter(store, tmpl),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server started at %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %s", err)
	}
	log.Println("Server stopped")
}
