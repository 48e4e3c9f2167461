package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/pagebuilder/internal/client/client"
	"github.com/dmitrijs2005/pagebuilder/internal/client/config"
	"github.com/dmitrijs2005/pagebuilder/internal/client/editor"
	"github.com/dmitrijs2005/pagebuilder/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/pagebuilder/internal/client/snapshot"
	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/dmitrijs2005/pagebuilder/internal/registry"
	"github.com/dmitrijs2005/pagebuilder/internal/renderer"
)

type App struct {
	config *config.Config
	store  *editor.Store
	remote client.Client
	render *renderer.Renderer
	db     *sql.DB
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, slog.LevelInfo)

	reg, err := registry.Default()
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	render, err := renderer.New(reg)
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	db, err := snapshot.Open(ctx, c.LocalDSN)
	if err != nil {
		logger.Error(ctx, "error initializing local store", "dsn", c.LocalDSN, "error", err)
		return nil, err
	}

	remote, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	slot := snapshot.New(metadata.NewSQLiteRepository(db))
	store := editor.NewStore(reg, slot, remote, logger)

	return &App{
		config: c,
		store:  store,
		remote: remote,
		render: render,
		db:     db,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run opens the initial document and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	a.store.Start(ctx, a.config.PageID)

	fmt.Fprintln(a.out, "Page builder editor (type 'help' for commands)")

	var prompt func() string
	if isTerminal(int(os.Stdin.Fd())) {
		prompt = a.prompt
	}
	runREPL(ctx, a, prompt, a.reader)
}

func (a *App) close(ctx context.Context) {
	if err := a.remote.Close(); err != nil {
		a.logger.Warn(ctx, "closing connection", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(ctx, "closing local store", "error", err)
		}
	}
}
