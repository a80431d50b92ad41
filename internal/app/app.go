// Package app wires configuration into a running roster sync service. It is
// shared by the server binary and the rostersync CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/rostersync/internal/config"
	"github.com/JonMunkholm/rostersync/internal/core"
	"github.com/JonMunkholm/rostersync/internal/sheets"
	"github.com/JonMunkholm/rostersync/internal/web"
)

// App holds the service and the resources it owns.
type App struct {
	Config  *config.Config
	Service *core.Service

	pool *pgxpool.Pool
}

// New connects the store and spreadsheet clients described by cfg.
// Without a database URL history is kept in memory; without an access token
// imports use the public CSV export and exports are unavailable.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	var store core.Store
	if cfg.Database.Enabled() {
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.pool = pool

		pg := core.NewPGStore(pool)
		if cfg.Database.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				pool.Close()
				return nil, err
			}
		}
		store = pg
	} else {
		slog.Warn("no database configured, sync history is kept in memory")
		store = core.NewMemStore()
	}

	clientCfg := sheets.ClientConfig{
		Endpoint:    cfg.Sheets.APIEndpoint,
		AccessToken: cfg.Sheets.AccessToken,
		Timeout:     cfg.Sheets.RequestTimeout,
	}

	var exporter *sheets.Exporter
	var fetcher *sheets.Fetcher
	if cfg.Sheets.AccessToken != "" {
		api, err := sheets.NewService(ctx, clientCfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		exporter = sheets.NewExporter(api, nil)
		fetcher = sheets.NewFetcher(clientCfg.HTTPClient(), cfg.Sheets.ExportBaseURL, api, cfg.Import.MaxFileSize)
		slog.Info("spreadsheet api configured", "endpoint", cfg.Sheets.APIEndpoint)
	} else {
		fetcher = sheets.NewFetcher(clientCfg.HTTPClient(), cfg.Sheets.ExportBaseURL, nil, cfg.Import.MaxFileSize)
		slog.Info("no spreadsheet token, using public csv export")
	}

	a.Service = core.NewService(store, fetcher, exporter, core.Options{
		MaxFileSize:   cfg.Import.MaxFileSize,
		MaxConcurrent: cfg.Import.MaxConcurrent,
		MaxWait:       cfg.Import.MaxWaitTime,
		Timeout:       cfg.Import.Timeout,
		DefaultTab:    cfg.Sheets.DefaultTab,
	})
	return a, nil
}

func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}

// Close releases the database pool.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// Serve runs the HTTP server and the retention scheduler until ctx is
// cancelled, then drains in-flight syncs and shuts the server down.
func (a *App) Serve(ctx context.Context) error {
	server := web.NewServer(a.Service, a.Config)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.Service.StartRetentionScheduler(ctx, core.RetentionConfig{
			HistoryDays:   a.Config.Retention.HistoryDays,
			CheckInterval: a.Config.Retention.CheckInterval,
		})
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if status := a.Service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for syncs to complete", "active", status.Active)
			start := time.Now()
			if err := a.Service.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("syncs did not complete in time", "error", err)
			} else {
				slog.Info("all syncs completed", "waited_ms", time.Since(start).Milliseconds())
			}
		}

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
