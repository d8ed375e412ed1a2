package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/glowmatch/backend/config"
	httpDelivery "github.com/glowmatch/backend/internal/delivery/http"
	"github.com/glowmatch/backend/internal/domain"
	"github.com/glowmatch/backend/internal/infrastructure/cache"
	"github.com/glowmatch/backend/internal/infrastructure/catalog"
	"github.com/glowmatch/backend/internal/logger"
	"github.com/glowmatch/backend/internal/usecase"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(opts.configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg.Log = opts.logConfig(cfg.Log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger.New(cfg.Log))
		},
	}
}

// closableCache is a cache backend holding resources
type closableCache interface {
	domain.CacheRepository
	Close() error
}

// serve runs the API until ctx is cancelled, then shuts down gracefully
func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	log.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Msg("starting GlowMatch backend")

	store, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	ranking := usecase.NewRankingService(usecase.RankingConfig{MinScore: cfg.Matching.MinScore})

	var catalogService *usecase.CatalogService
	if cfg.Backend.BaseURL != "" {
		client := catalog.NewClient(catalog.ClientConfig{
			BaseURL:           cfg.Backend.BaseURL,
			Timeout:           cfg.Backend.Timeout,
			RequestsPerSecond: cfg.Backend.RequestsPerSecond,
			Burst:             cfg.Backend.Burst,
		}, log)

		// Enable debug mode in development environment
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
			log.Debug().Msg("catalog client debug mode enabled")
		}

		catalogService = usecase.NewCatalogService(store, client, usecase.CatalogServiceConfig{
			CacheTTL:   cfg.Cache.TTL,
			ProfileTTL: cfg.Cache.ProfileTTL,
			MinScore:   cfg.Matching.MinScore,
		}, log)
		log.Info().Str("base_url", cfg.Backend.BaseURL).Msg("catalog API configured")
	} else {
		log.Warn().Msg("backend.base_url not set, catalog endpoints will answer 503")
	}

	handler := httpDelivery.NewHandler(catalogService, ranking, version, log)
	router := httpDelivery.SetupRouter(cfg, handler, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info().Msg("bye")
	return nil
}

// newCache builds the configured cache backend
func newCache(ctx context.Context, cfg config.CacheConfig) (closableCache, error) {
	switch cfg.Type {
	case "redis":
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisCache(client), nil
	default:
		return cache.NewMemoryCache(), nil
	}
}
