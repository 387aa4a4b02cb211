// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/open-sspm/sspmdocs/internal/api"
	"github.com/open-sspm/sspmdocs/internal/descriptor"
	"github.com/open-sspm/sspmdocs/internal/docs"
	"github.com/open-sspm/sspmdocs/internal/docservice"
	"github.com/open-sspm/sspmdocs/internal/index"
	"github.com/open-sspm/sspmdocs/internal/mcpserver"
	"github.com/open-sspm/sspmdocs/internal/sse"
	"github.com/open-sspm/sspmdocs/internal/storage"
	"github.com/open-sspm/sspmdocs/internal/web"
)

const (
	reloadThrottle  = 2 * time.Second
	shutdownTimeout = 10 * time.Second
)

// runtime is the loaded state shared by every command.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	store  storage.Provider
	db     *index.DB
	holder *docs.Holder
	svc    *docservice.Service
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", logOut: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// bootstrap sets up logging, opens the source and the index and performs the
// initial load. A failed load is recorded in the holder, not returned.
func bootstrap(ctx context.Context, app *application) (*runtime, error) {
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("source", cfg.Source.Location),
		slog.String("index_dsn", cfg.Index.DSN),
		slog.Bool("watch", cfg.Watch.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.New(cfg.Source.Location, cfg.Source.Timeout)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.Index.DSN)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	holder := docs.NewHolder()
	if _, err := index.Sync(ctx, db, holder, store, logger); err != nil {
		holder.Fail(err)
		logger.Warn("initial load failed", slog.String("error", err.Error()))
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		store:  store,
		db:     db,
		holder: holder,
		svc:    docservice.NewService(holder),
	}, nil
}

// Run starts the HTTP docs server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	rt, err := bootstrap(ctx, app)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	cfg := rt.cfg
	logger := rt.logger

	// SSE broker.
	broker := sse.NewBroker(reloadThrottle)
	defer broker.Close()

	live := cfg.Watch.Enabled && !storage.IsURL(cfg.Source.Location)
	if cfg.Watch.Enabled && !live {
		logger.Warn("watch disabled: source is not a directory", slog.String("source", cfg.Source.Location))
	}

	pages, err := web.NewHandler(rt.svc, web.WithLiveReload(live))
	if err != nil {
		return fmt.Errorf("init web: %w", err)
	}

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := rt.holder.Current(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api, pages at the root.
	r.Mount("/api", api.NewRouter(rt.svc, rt.db, broker))
	r.Mount("/", pages.Routes())

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	// Reload on source changes and tell open pages.
	if live {
		g.Go(func() error {
			return index.Watch(gCtx, cfg.Source.Location, cfg.Watch.Debounce, logger, func(ctx context.Context) {
				changed, err := index.Sync(ctx, rt.db, rt.holder, rt.store, logger)
				if err != nil {
					logger.Warn("reload failed, keeping previous docs", slog.String("error", err.Error()))
					return
				}
				if !changed {
					return
				}
				if site, err := rt.holder.Current(); err == nil {
					broker.PublishReload(sse.Reload{Checksum: site.Checksum, LoadedAt: site.LoadedAt})
				}
			})
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		cancel()
		// Event streams only end when the broker closes them.
		broker.Close()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the docs over the MCP stdio transport until stdin closes.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	rt, err := bootstrap(ctx, app)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	rt.logger.Info("MCP server starting", slog.String("version", app.version))
	return mcpserver.New(rt.svc, rt.db, app.version).ServeStdio()
}

// PrintFields loads the docs and writes the field table of one metaschema
// kind to out.
func PrintFields(ctx context.Context, out io.Writer, kindName, query string, opts ...Option) error {
	kind, ok := descriptor.ParseKind(kindName)
	if !ok {
		return fmt.Errorf("unknown kind %q", kindName)
	}
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	rt, err := bootstrap(ctx, app)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	rows, err := rt.svc.SchemaFields(kind, query)
	if err != nil {
		return err
	}
	return writeFieldTable(out, rows)
}
