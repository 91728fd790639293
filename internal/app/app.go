package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/wordnest/wordnest-backend/internal/adapter/postgres"
	"github.com/wordnest/wordnest-backend/internal/adapter/postgres/wordcard"
	"github.com/wordnest/wordnest-backend/internal/adapter/provider/datamuse"
	"github.com/wordnest/wordnest-backend/internal/adapter/provider/freedict"
	"github.com/wordnest/wordnest-backend/internal/adapter/provider/imagegen"
	"github.com/wordnest/wordnest-backend/internal/adapter/provider/youdao"
	"github.com/wordnest/wordnest-backend/internal/assets"
	"github.com/wordnest/wordnest-backend/internal/config"
	"github.com/wordnest/wordnest-backend/internal/service/enrich"
	"github.com/wordnest/wordnest-backend/internal/transport/httpapi"
	"github.com/wordnest/wordnest-backend/internal/version"
)

// Run is the application entry point. It loads configuration, initializes
// the logger, connects to the database, applies migrations, constructs the
// enrichment pipeline with explicitly injected collaborators, and serves the
// HTTP API until SIGINT/SIGTERM.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", version.Build()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	txm := postgres.NewTxManager(pool)
	cards := wordcard.New(pool, txm)

	dict := freedict.New(cfg.Providers.DictionaryBaseURL, cfg.Providers.RequestTimeout, logger)
	translator := youdao.New(cfg.Providers.TranslateBaseURL, cfg.Providers.RequestTimeout, logger)
	images := imagegen.New(cfg.Providers.ImageGenBaseURL, cfg.Providers.RequestTimeout, logger)
	suggester := datamuse.New(cfg.Providers.SuggestBaseURL, cfg.Providers.RequestTimeout, logger)

	store := assets.New(cfg.Assets.Root, cfg.Assets.PublicPrefix, cfg.Assets.DownloadTimeout, logger)

	enricher := enrich.NewService(logger, cards, dict, translator, images, suggester, store, cfg.Suggest)

	handler := httpapi.NewHandler(logger, enricher, cards)
	router := httpapi.NewRouter(handler, logger, cfg.Assets.Root, cfg.Assets.PublicPrefix)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
