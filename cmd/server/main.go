package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"

	"notesvc/internal/api"
	"notesvc/internal/config"
	"notesvc/internal/db"
	"notesvc/internal/notes"
	"notesvc/internal/obs"
	"notesvc/internal/ratelimit"
)

func main() {
	obs.Init()
	log := obs.Pkg("main")

	addr, dbPath := config.ParseFlags()
	cfg := config.MustLoad(addr, dbPath)
	cfg.PrintStartupSummary()

	database, err := db.Open(cfg.DatabasePath, cfg.DatabaseKey)
	if err != nil {
		log.Error("failed to open database", "error", err.Error())
		os.Exit(1)
	}

	store := notes.NewStore(database)
	handler := api.NewHandler(store)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	limiter := ratelimit.NewLimiter(cfg.RateLimitConfig)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		MaxAge:         86400,
	})

	var root http.Handler = mux
	root = ratelimit.Middleware(limiter)(root)
	root = corsHandler.Handler(root)
	root = obs.AccessLogMiddleware("http", root)
	root = obs.RequestContextMiddleware(root)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: root,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down gracefully")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err.Error())
	}

	limiter.Stop()

	if err := database.Close(); err != nil {
		log.Error("failed to close database", "error", err.Error())
	} else {
		log.Info("database connection closed")
	}
}
