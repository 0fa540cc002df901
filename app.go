package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AppProvider interface {
	Run() error
	Serve(context.Context, context.CancelFunc) func() error
	Stop(context.Context, context.Context) func() error
}

type App struct {
	logger   *zap.Logger
	config   *Config
	shell    *Shell
	storage  BookStorage
	served   chan struct{}
	cleanups []func() error
}

// NewApp provides an instance of App bound to the given terminal streams.
func NewApp(configFile, envFile string, in io.Reader, out io.Writer) (AppProvider, error) {
	config, err := LoadAndInitConfigs(configFile, envFile, GitCommit, GitTag, BuildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %s", err)
	}

	sessionID, err := NewSessionID()
	if err != nil {
		return nil, err
	}

	// Setup the logging module with a rotating file writer.
	clock := NewClock(config.IsProduction)
	logWriter := NewLogFile(config, clock)
	logger, flusher := SetupLogging(config, logWriter, clock, sessionID)

	storage, err := NewBookStorage(logger, config, sessionID)
	if err != nil {
		_ = logWriter.Close()
		return nil, fmt.Errorf("failed to setup %s storage: %s", config.Storage, err)
	}
	logger.Info("app: storage ready", zap.String("app.storage", config.Storage))

	catalog := NewCatalog(logger, storage)
	shell := NewShell(logger, &config.Shell, catalog, in, out)

	return &App{
		logger:  logger,
		config:  config,
		shell:   shell,
		storage: storage,
		served:  make(chan struct{}),
		cleanups: []func() error{
			flusher,
			logWriter.Close,
		},
	}, nil
}

// NewBookStorage provides the catalog backend selected by the configuration.
func NewBookStorage(logger *zap.Logger, config *Config, sessionID string) (BookStorage, error) {
	switch config.Storage {
	case StorageBolt:
		client, err := GetBoltDBClient(&config.BoltDB)
		if err != nil {
			return nil, err
		}
		return NewBoltBookStorage(logger, &config.BoltDB, client), nil
	case StorageRedis:
		client, err := GetRedisClient(&config.Redis)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return NewRedisBookStorage(logger, client, sessionID), nil
	default:
		return NewMemoryBookStorage(), nil
	}
}

// Run starts the shell and a goroutine which is responsible to release the
// storage once the session ends, whether by quit, end of input or signal.
func (app *App) Run() error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sCtx, cancel := context.WithCancel(nCtx)
	defer cancel()
	g, gCtx := errgroup.WithContext(sCtx)

	g.Go(app.Serve(gCtx, cancel))
	g.Go(app.Stop(nCtx, gCtx))

	err := g.Wait()
	app.logger.Info("shell session stopped", zap.String("app.storage", app.config.Storage), zap.Error(err))
	return err
}

// Clean calls all registered cleanups functions.
func (app *App) Clean() {
	for _, f := range app.cleanups {
		if err := f(); err != nil {
			fmt.Fprintln(os.Stderr, "error during app cleanup:", err)
		}
	}
}

// Serve runs the shell session. Its returned error will be caught by the
// errorgroup. The session context is cancelled once the shell returns.
func (app *App) Serve(ctx context.Context, cancel context.CancelFunc) func() error {
	return func() error {
		defer cancel()
		defer close(app.served)
		app.logger.Info("shell session starting", zap.String("app.storage", app.config.Storage))
		return app.shell.Run(ctx)
	}
}

// Stop waits for the session end, states the reason then closes the storage
// once the shell has returned, so a running command is always completed.
// We explicitly return `nil` to allow the errorgroup catches only the `Serve`
// method result.
func (app *App) Stop(nCtx, gCtx context.Context) func() error {
	return func() error {
		<-gCtx.Done()
		<-app.served

		if nCtx.Err() != nil {
			app.logger.Info("shell session stopping. reason: requested to stop")
		} else {
			app.logger.Info("shell session stopping. reason: session ended")
		}

		if count, err := app.storage.Count(context.Background()); err == nil {
			app.logger.Info("shell session catalog size", zap.Int("books", count))
		}
		if err := app.storage.Close(); err != nil {
			app.logger.Error("failed to close storage", zap.Error(err))
		}
		return nil
	}
}
