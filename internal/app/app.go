// Package app wires the state containers of one app session.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"taskmate/internal/assistant"
	"taskmate/internal/auth"
	"taskmate/internal/backend/gemini"
	"taskmate/internal/backend/openai"
	"taskmate/internal/backend/taskapi"
	"taskmate/internal/config"
	"taskmate/internal/logging"
	"taskmate/internal/service"
	"taskmate/internal/tasks"
	"taskmate/internal/theme"
)

// App is everything a command can reach. One App is one session: a
// one-shot command or one interactive shell.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Service service.Service
	Tasks   *tasks.Store
	Auth    *auth.Auth
	Advisor *assistant.Advisor
	Themes  *theme.Manager
}

// New builds an App from config: the REST task gateway and the configured
// AI provider. A missing AI key is not an error; the advisor then only
// returns fallbacks.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	log = logging.OrDiscard(log)

	svc, err := taskapi.New(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	completer, err := NewCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if completer == nil {
		log.Debug("no AI key configured", "provider", cfg.AI.Provider)
	}
	return NewWithDeps(cfg, svc, completer, log), nil
}

// NewWithDeps builds an App around an existing gateway and completer (for testing).
// completer may be nil.
func NewWithDeps(cfg *config.Config, svc service.Service, completer assistant.Completer, log *slog.Logger) *App {
	log = logging.OrDiscard(log)
	store := tasks.NewStore(svc, log)
	themes := theme.NewManager(cfg.ThemePath(), log)
	themes.Load()

	return &App{
		Config:  cfg,
		Log:     log,
		Service: svc,
		Tasks:   store,
		Auth:    auth.New(store, log),
		Advisor: assistant.NewAdvisor(completer, cfg.AI.Language, log),
		Themes:  themes,
	}
}

// NewCompleter returns the completer for cfg.AI.Provider, or nil when no
// API key is set.
func NewCompleter(ctx context.Context, cfg *config.Config) (assistant.Completer, error) {
	if strings.TrimSpace(cfg.AI.APIKey) == "" {
		return nil, nil
	}
	switch cfg.AI.Provider {
	case "gemini":
		c, err := gemini.New(ctx, gemini.Config{
			APIKey:   cfg.AI.APIKey,
			Model:    cfg.AI.Model,
			Endpoint: cfg.AI.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case "openai":
		c, err := openai.New(openai.Config{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			BaseURL: cfg.AI.BaseURL,
		}, nil)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %s (want gemini or openai)", cfg.AI.Provider)
	}
}
