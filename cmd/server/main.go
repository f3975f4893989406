package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aquavo/support-backend/internal/ai"
	"github.com/aquavo/support-backend/internal/config"
	"github.com/aquavo/support-backend/internal/db"
	"github.com/aquavo/support-backend/internal/dedupe"
	"github.com/aquavo/support-backend/internal/escalation"
	httpapi "github.com/aquavo/support-backend/internal/http"
	"github.com/aquavo/support-backend/internal/lexicon"
	"github.com/aquavo/support-backend/internal/notify"
	"github.com/aquavo/support-backend/internal/tickets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "support-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	if cfg.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate db")
		}
	}

	tables, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.LexiconPath).Msg("failed to load lexicon")
	}
	scorer := escalation.NewScorer(store, tables, escalation.Config{
		Threshold:    cfg.EscalationThreshold,
		HistoryLimit: cfg.HistoryLimit,
	}, logger)

	var sender notify.Sender
	switch cfg.NotifyTransport {
	case "smtp":
		sender = notify.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}
	case "kafka":
		ks := notify.NewKafkaSender(cfg.Brokers(), cfg.KafkaNotifyTopic)
		defer ks.Close()
		sender = ks
	default:
		sender = notify.LogSender{Logger: logger}
	}
	notifier := notify.New(store, sender, notify.Config{
		Transport:   cfg.NotifyTransport,
		Timeout:     cfg.NotifyTimeout,
		Concurrency: cfg.NotifyConcurrency,
		FrontendURL: cfg.FrontendURL,
	}, logger)
	manager := tickets.NewManager(store, store, notifier, logger)

	var guard dedupe.Guard = dedupe.NopGuard{}
	if cfg.RedisURL != "" {
		rg, err := dedupe.NewRedisGuard(ctx, cfg.RedisURL, cfg.DedupeTTL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, escalation dedupe disabled")
		} else {
			defer rg.Close()
			guard = rg
		}
	}

	var assistant ai.Assistant
	switch {
	case cfg.AssistantBaseURL != "":
		assistant = &ai.OpenAICompatAssistant{
			BaseURL:   cfg.AssistantBaseURL,
			Model:     cfg.AssistantModel,
			APIKey:    cfg.AssistantAPIKey,
			MaxTokens: cfg.AssistantMaxTokens,
		}
	case cfg.Env == "dev":
		assistant = ai.MockAssistant{}
		logger.Info().Msg("using mock assistant")
	}

	router := httpapi.Router(cfg, httpapi.Deps{
		DB:        store,
		Scorer:    scorer,
		Tickets:   manager,
		Dedupe:    guard,
		Assistant: assistant,
		Turns:     store,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	manager.Wait()
	logger.Info().Msg("server stopped")
}
