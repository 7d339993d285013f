package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"stockcheck/internal/api"
	"stockcheck/internal/config"
	"stockcheck/internal/db"
	"stockcheck/internal/httputil"
	"stockcheck/internal/quote"
	"stockcheck/internal/repository"
)

const banner = `
╔══════════════════════════════════════╗
║        Stock Price Checker v1.0      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Like store
	var store repository.LikeStore
	switch cfg.StoreBackend {
	case config.BackendRedis:
		fmt.Printf("\n[STORE] Connecting to redis at %s ...\n", cfg.RedisAddr)
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		redisStore := repository.NewRedisStore(client)
		if err := redisStore.Ping(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "[STORE] Redis ping failed: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			redisStore.Close()
			fmt.Println("[STORE] Redis connection closed")
		}()
		store = redisStore

	default:
		fmt.Printf("\n[STORE] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
		pool, err := db.Connect(cfg.DSN())
		if err != nil {
			fmt.Fprintf(os.Stderr, "[STORE] Connection failed: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			pool.Close()
			fmt.Println("[STORE] Connection pool closed")
		}()

		if err := db.TestConnection(pool); err != nil {
			fmt.Fprintf(os.Stderr, "[STORE] Test query failed: %v\n", err)
			os.Exit(1)
		}
		if err := db.EnsureSchema(context.Background(), pool); err != nil {
			fmt.Fprintf(os.Stderr, "[STORE] %v\n", err)
			os.Exit(1)
		}
		store = repository.NewStockRepo(pool)
	}

	// Quote resolver: proxy first, optional keyed fallback second, price 0
	// when every source fails.
	timeout := time.Duration(cfg.QuoteTimeoutSeconds) * time.Second
	httpClient := httputil.New(timeout)
	providers := []quote.Provider{quote.NewProxyClient(cfg.QuoteProxyURL, httpClient)}
	if cfg.FallbackEnabled() {
		providers = append(providers, quote.NewIEXClient(cfg.QuoteFallbackURL, cfg.QuoteAPIKey, httpClient))
	}
	resolver := quote.NewResolver(timeout, providers...)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(store, resolver, cfg.Port, cfg.APIKey, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
