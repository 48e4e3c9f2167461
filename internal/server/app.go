// Package server wires the page server: storage backend, optional site
// upload, the gRPC page service for the editor and the HTTP API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/dmitrijs2005/pagebuilder/internal/registry"
	"github.com/dmitrijs2005/pagebuilder/internal/renderer"
	"github.com/dmitrijs2005/pagebuilder/internal/server/config"
	"github.com/dmitrijs2005/pagebuilder/internal/server/httpapi"
	"github.com/dmitrijs2005/pagebuilder/internal/server/migrations"
	"github.com/dmitrijs2005/pagebuilder/internal/server/pages"
	"github.com/dmitrijs2005/pagebuilder/internal/server/publisher"
	repositories "github.com/dmitrijs2005/pagebuilder/internal/server/repositories/pages"

	gs "github.com/dmitrijs2005/pagebuilder/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	pages    *pages.Service
	registry *registry.Registry
	renderer *renderer.Renderer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	reg, err := registry.Default()
	if err != nil {
		return nil, fmt.Errorf("registry init error: %w", err)
	}
	rnd, err := renderer.New(reg)
	if err != nil {
		return nil, fmt.Errorf("renderer init error: %w", err)
	}

	app := &App{config: c, logger: logger, registry: reg, renderer: rnd}

	repo, err := app.openRepository(ctx)
	if err != nil {
		return nil, err
	}

	var site pages.SiteWriter
	if c.S3Bucket != "" {
		p, err := publisher.New(ctx, publisher.Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
		}, rnd, logger)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("publisher init error: %w", err)
		}
		site = p
	}

	app.pages = pages.NewService(repo, site, logger)
	return app, nil
}

func (app *App) openRepository(ctx context.Context) (pages.Repository, error) {
	switch app.config.Storage {
	case config.StorageFile:
		repo, err := repositories.NewFileStore(app.config.DataDir)
		if err != nil {
			return nil, fmt.Errorf("file storage init error: %w", err)
		}
		return repo, nil
	case config.StoragePostgres:
		db, err := repositories.OpenPostgres(app.config.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := migrations.Up(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		app.db = db
		return repositories.NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", app.config.Storage)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.pages)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewHandler(app.pages, app.registry, app.renderer, app.logger)
	s := httpapi.NewServer(app.config.HTTPAddr, httpapi.NewRouter(h, app.logger), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until a signal arrives or one of them fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	if app.db != nil {
		_ = app.db.Close()
	}
}
