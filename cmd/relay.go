package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nextlevelbuilder/lineclaw/internal/channels/line"
	"github.com/nextlevelbuilder/lineclaw/internal/config"
	"github.com/nextlevelbuilder/lineclaw/internal/gateway"
	"github.com/nextlevelbuilder/lineclaw/internal/providers"
	"github.com/nextlevelbuilder/lineclaw/internal/responder"
)

func runRelay() {
	// Setup structured logging
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Secrets are env-only; a local .env is the simplest way to provide them.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	lineClient := line.NewClient(cfg.Line.ChannelAccessToken, cfg.Line.ChannelSecret, cfg.Line.APIBase)
	if !lineClient.Configured() {
		slog.Warn("LINE credentials not set; webhook verification and replies are disabled")
	}

	gen := responder.NewGenerator(
		providers.NewOpenAIProvider(cfg.Providers.OpenAI.APIKey, cfg.Providers.OpenAI.APIBase, cfg.Providers.OpenAI.Model),
		providers.NewGeminiProvider(cfg.Providers.Gemini.APIKey, cfg.Providers.Gemini.APIBase, cfg.Providers.Gemini.Models),
		providers.NewHuggingFaceProvider(cfg.Providers.HuggingFace.Token, cfg.Providers.HuggingFace.APIBase, cfg.Providers.HuggingFace.AuthBase, cfg.Providers.HuggingFace.Models),
		providers.NewOllamaProvider(cfg.Providers.Ollama.URL, cfg.Providers.Ollama.Model),
	)
	if !gen.Available() {
		slog.Warn("no generation backend available; only canned replies will be served")
	}

	srv := gateway.NewServer(cfg, lineClient, gen)

	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		slog.Info("shutdown requested")
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		slog.Error("relay server error", "error", err)
		os.Exit(1)
	}
}
