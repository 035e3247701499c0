package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/taskgridgo/internal/config"
	"github.com/vk/taskgridgo/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
}

// NewApp constructs the application: it configures an isolated logger, loads
// the taskfile through the provided loader, and validates the model. A nil
// App and an error are returned on any startup failure.
func NewApp(outW, errW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.TaskfilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load taskfile: %w", err)
	}
	logger.Debug("Taskfile loaded into unified model.", "targets", len(model.Targets))

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid taskfile: %w", err)
	}
	logger.Debug("Model validation passed.")

	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: cfg,
		model:  model,
	}, nil
}

// Model returns the loaded taskfile model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
