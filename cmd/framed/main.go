package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"framed/internal/config"
	"framed/internal/httpapi"
	"framed/internal/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	// Flags with environment variable defaults
	defaultAddr := ":8080"
	if v := os.Getenv("FRAMED_ADDR"); v != "" {
		defaultAddr = v
	}
	defaultConfig := os.Getenv("FRAMED_CONFIG")

	var (
		addr     string
		cfgPath  string
		logLevel string
	)
	root := &cobra.Command{
		Use:           "framed",
		Short:         "Asset supply server for photo displays backed by Immich",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(addr, cfgPath, logLevel)
		},
	}
	root.Flags().StringVar(&addr, "addr", defaultAddr, "HTTP listen address, e.g. :8080")
	root.Flags().StringVar(&cfgPath, "config", defaultConfig, "Path to config file (yaml, json or toml)")
	root.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error|off (overrides config)")
	return root
}

func run(addr, cfgPath, logLevel string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Addr != "" && addr == ":8080" {
		addr = cfg.Addr
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(httpapi.ParseLevel(logLevel)).
		With().Timestamp().Logger()

	strategy, err := registry.BuildStrategy(cfg, log)
	if err != nil {
		return fmt.Errorf("build accounts: %w", err)
	}
	defer strategy.Close()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(log)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins,
		[]string{http.MethodGet}, []string{"Accept", "Content-Type"})

	mux := httpapi.NewMux(strategy)
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Int("accounts", len(strategy.Accounts())).Msg("framed listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
