// Package main is the entry point for the orchestrator API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/showrunner-ai/orchestrator-platform/internal/config"
	"github.com/showrunner-ai/orchestrator-platform/internal/handler"
	"github.com/showrunner-ai/orchestrator-platform/internal/intent"
	"github.com/showrunner-ai/orchestrator-platform/internal/llm"
	"github.com/showrunner-ai/orchestrator-platform/internal/middleware"
	natsclient "github.com/showrunner-ai/orchestrator-platform/internal/nats"
	"github.com/showrunner-ai/orchestrator-platform/internal/service"
	"github.com/showrunner-ai/orchestrator-platform/internal/store"
	"github.com/showrunner-ai/orchestrator-platform/pkg/logger"
	"github.com/showrunner-ai/orchestrator-platform/pkg/tracing"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "orchestrator-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Session store
	var (
		sessionStore    store.SessionStore
		productionStore store.ProductionStore
		storePinger     handler.Pinger
	)
	switch cfg.StoreDriver {
	case "memory":
		mem := store.NewMemoryStore()
		sessionStore = mem
		productionStore = mem
		log.Info("using in-memory session store")
	default:
		sqlStore, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Error("failed to open sqlite store", zap.Error(err))
			os.Exit(1)
		}
		defer sqlStore.Close()
		sessionStore = sqlStore
		productionStore = sqlStore
		storePinger = sqlStore
		log.Info("using sqlite session store", zap.String("path", cfg.SQLitePath))
	}

	// Turn event stream, optional
	var (
		nc         *natsclient.Client
		turnStream *natsclient.TurnStream
		publisher  natsclient.TurnPublisher
	)
	if cfg.NATSEnabled {
		nc, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer nc.Close()

		turnStream = natsclient.NewTurnStream(nc)
		if err := turnStream.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure turn stream", zap.Error(err))
			os.Exit(1)
		}
		publisher = turnStream
	}

	// Studio LLM provider, optional
	var llmClient llm.Client
	switch {
	case cfg.DefaultLLM == "anthropic" && cfg.AnthropicAPIKey != "":
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	case cfg.AnthropicAPIKey != "":
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	}
	if err != nil {
		log.Warn("failed to create LLM client, studio falls back to templates", zap.Error(err))
		llmClient = nil
	}

	dispatcher := intent.New()

	orchestratorSvc := service.NewOrchestrator(sessionStore, dispatcher, publisher, log)
	productionSvc := service.NewProduction(productionStore, log)

	healthHandler := handler.NewHealthHandler(nc, storePinger)
	chatHandler := handler.NewChatHandler(orchestratorSvc, log)
	sessionHandler := handler.NewSessionHandler(orchestratorSvc, log)
	productionHandler := handler.NewProductionHandler(productionSvc, log)
	oauthHandler := handler.NewOAuthHandler(cfg.YouTubeClientID, cfg.YouTubeClientSecret, log)
	turnsHandler := handler.NewTurnsHandler(turnStream, log)
	studioHandler := handler.NewStudioHandler(llmClient, dispatcher, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// The chat endpoint is public: the extension widget talks to it
		// before any login happens.
		r.Group(func(r chi.Router) {
			r.Use(middleware.IPRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
			r.Post("/chat", chatHandler.Respond)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Get("/{id}", sessionHandler.Get)
				r.Delete("/{id}", sessionHandler.Delete)
				r.Get("/{id}/turns", turnsHandler.List)
			})

			r.Post("/production/setup", productionHandler.Setup)

			r.Route("/oauth/youtube", func(r chi.Router) {
				r.Post("/authorize", oauthHandler.Authorize)
				r.Post("/exchange", oauthHandler.Exchange)
			})

			r.Route("/studio", func(r chi.Router) {
				r.Post("/chat", studioHandler.Chat)
				r.Post("/chat/stream", studioHandler.Stream)
			})
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
