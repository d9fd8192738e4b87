package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"publicindex/internal/ratelimit"
	"publicindex/internal/util"
	"publicindex/pkg/ai"
	"publicindex/pkg/auth"
	"publicindex/pkg/notify"
	"publicindex/services/library/internal/app"
	"publicindex/services/library/internal/config"
	"publicindex/services/library/internal/server"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	var generator ai.TextGenerator
	switch cfg.AIProvider {
	case "gemini":
		client, err := ai.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("failed to init gemini client: %v", err)
		}
		generator = ai.NewGeminiGenerator(client, cfg.GenerationModel)
	case "ollama":
		generator = ai.NewOllamaGenerator(ai.NewOllamaClient(cfg.OllamaBaseURL), cfg.GenerationModel)
	default:
		slog.Warn("no AI provider configured, assistant runs offline")
	}
	assistant := ai.NewAssistant(generator)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.SMTPHost != "" && cfg.AdminEmail != "" {
		mailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			AdminTo:  cfg.AdminEmail,
		})
		if err != nil {
			log.Fatalf("failed to init smtp mailer: %v", err)
		}
		notifier = mailer
	} else {
		slog.Warn("smtp not configured, admin notifications disabled")
	}

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	sessions, err := auth.NewSessionIssuer(cfg.JWTSecret, sessionTTL, auth.SessionOptions{})
	if err != nil {
		log.Fatalf("failed to init session issuer: %v", err)
	}

	authLimiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "publicindex:ratelimit:auth", 10, time.Minute)
	if err != nil {
		log.Fatalf("failed to init auth rate limiter: %v", err)
	}
	submitLimiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "publicindex:ratelimit:submit", 5, time.Minute)
	if err != nil {
		log.Fatalf("failed to init submit rate limiter: %v", err)
	}

	appCore, err := app.New(app.Config{
		DatabaseURL:     cfg.DatabaseURL,
		MinioEndpoint:   cfg.MinioEndpoint,
		MinioAccessKey:  cfg.MinioAccessKey,
		MinioSecretKey:  cfg.MinioSecretKey,
		MinioBucket:     cfg.MinioBucket,
		MinioUseSSL:     cfg.MinioUseSSL,
		Assistant:       assistant,
		Notifier:        notifier,
		AdminSecretCode: cfg.AdminSecretCode,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer := server.New(server.Config{
		App:            appCore,
		Sessions:       sessions,
		AuthLimiter:    authLimiter,
		SubmitLimiter:  submitLimiter,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("library server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
