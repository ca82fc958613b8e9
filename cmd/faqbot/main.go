package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/config"
	logpkg "github.com/kailas-cloud/faqbot/internal/logger"
	chiTransport "github.com/kailas-cloud/faqbot/internal/transport/chi"
	"github.com/kailas-cloud/faqbot/internal/transport/telegram"
	"github.com/kailas-cloud/faqbot/internal/version"
)

type options struct {
	env        string
	configPath string
}

func main() {
	if err := rootCMD().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCMD() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "faqbot",
		Short:        "Retrieval-augmented FAQ assistant",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// .env is optional
			_ = godotenv.Load()
			if opts.env == "" {
				opts.env = config.GetEnv()
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.env, "env", "", "environment: local, dev, docker, prod (default $ENV or local)")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default config/<env>.yaml)")

	root.AddCommand(serveCMD(opts), askCMD(opts), versionCMD())
	return root
}

func serveCMD(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway and Telegram webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
}

func askCMD(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(cmd.OutOrStdout(), a.assistant.HandleQuery(cmd.Context(), strings.Join(args, " ")))
			return nil
		},
	}
}

func versionCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func bootstrap(opts *options) (config.Config, *zap.Logger, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load(opts.env)
	}
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(opts.env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func serve(ctx context.Context, opts *options) error {
	cfg, logger, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting faqbot",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", opts.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("generation_model", cfg.Generation.Model),
	)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Startup failed", zap.Error(err))
		return err
	}
	defer a.Close()

	// Pass nil interface (not typed nil pointer!) when Telegram is not configured.
	var updates chiTransport.UpdateDispatcher
	var tg *telegram.Handler
	if cfg.Telegram.BotToken != "" {
		bot, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.APIEndpoint, nil)
		if err != nil {
			logger.Error("Telegram client failed", zap.Error(err))
			return err
		}
		tg = telegram.NewHandler(
			bot, a.assistant, cfg.Telegram.WelcomeMessage,
			time.Duration(cfg.Telegram.ReplyTimeoutSec)*time.Second, logger,
		)
		updates = tg
		logger.Info("Telegram webhook enabled", zap.String("bot", bot.Self.UserName))
	}

	server := chiTransport.NewServer(a.assistant, a.health, updates, cfg.Telegram.WebhookSecret, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr), zap.Int("index_chunks", a.index.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-serveErr:
		logger.Error("HTTP server error", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if tg != nil {
		waitReplies(shutdownCtx, tg, logger)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// waitReplies waits for in-flight Telegram replies until ctx expires.
func waitReplies(ctx context.Context, tg *telegram.Handler, logger *zap.Logger) {
	done := make(chan struct{})
	go func() {
		tg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn("Shutdown timed out with Telegram replies in flight")
	}
}
