package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"talio/internal/api"
	"talio/internal/broker"
	"talio/internal/domain"
	"talio/internal/journal"
	"talio/internal/stream"
	"talio/internal/telemetry"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP, websocket and long-poll server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides TALIO_LISTEN_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "talio", cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.WithError(err).Warn("tracing shutdown failed")
		}
	}()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	b := broker.New()
	poller := stream.NewPoller(cfg.LongPollTimeout)
	b.Subscribe(broker.AnyBoard, poller.Observer())

	if cfg.JournalQueue != "" {
		q, err := journal.NewQueueClient(cfg.TablesConn, cfg.JournalQueue)
		if err != nil {
			return err
		}
		b.Subscribe(broker.AnyBoard, journal.New(q, logger).Observer())
		logger.WithField("queue", cfg.JournalQueue).Info("event journal enabled")
	}

	var opts []domain.ServiceOption
	if cfg.IsolateFailures {
		opts = append(opts, domain.WithIsolatedFailures(func(o domain.BoardObserver, _ error) {
			b.UnsubscribeAll(o)
			stream.Detach(o)
		}))
	}
	svc := domain.NewService(store, b, logger, opts...)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderContentEncoding},
	}))
	e.Use(middleware.Decompress())
	api.Register(e, svc, b, poller, logger, api.Options{AllowedOrigins: cfg.CORSOrigins})

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.ListenAddr).Info("talio listening")
		errCh <- e.Start(cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownDeadline)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown failed")
		return err
	}
	return nil
}
