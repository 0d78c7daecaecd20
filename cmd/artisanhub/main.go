package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"artisanhub/internal/blob"
	"artisanhub/internal/config"
	"artisanhub/internal/http/handlers"
	applog "artisanhub/internal/log"
	"artisanhub/internal/repos"
	"artisanhub/internal/sessions"
	"artisanhub/internal/story"
)

var (
	configPath string
	portFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "artisanhub",
	Short: "Marketplace for handmade products",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if portFlag != "" {
			cfg.Port = portFlag
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	serveCmd.Flags().StringVar(&portFlag, "port", "", "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	logger, err := applog.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("config", zap.Any("cfg", cfg.Redacted()))

	stores, err := repos.Open(cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	blobs, err := blob.Open(cfg, stores.DB)
	if err != nil {
		return err
	}

	var storage fiber.Storage
	if cfg.RedisAddr != "" {
		rs := sessions.NewRedisStorage(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}, "artisanhub:sess:")
		if err := rs.Ping(ctx); err != nil {
			return fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		defer rs.Close()
		storage = rs
	}
	sess := sessions.NewManager(cfg.SessionTTL, cfg.CookieSecure, storage)

	gen := story.New(ctx, cfg)
	app := handlers.NewApp(cfg, handlers.NewDeps(stores, blobs, gen, sess))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", ":"+cfg.Port))
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("stopped")
	return nil
}
