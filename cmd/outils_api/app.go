package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/outils-citoyens/outils-api/internal/chat"
	"github.com/outils-citoyens/outils-api/internal/config"
	"github.com/outils-citoyens/outils-api/internal/db"
	"github.com/outils-citoyens/outils-api/internal/fallback"
	"github.com/outils-citoyens/outils-api/internal/generation"
	"github.com/outils-citoyens/outils-api/internal/legal"
	"github.com/outils-citoyens/outils-api/internal/llm"
	"github.com/outils-citoyens/outils-api/internal/logging"
	"github.com/outils-citoyens/outils-api/internal/pipeline"
	"github.com/outils-citoyens/outils-api/internal/prompts"
)

// app holds the components shared by the commands.
type app struct {
	cfg       *config.Config
	log       *logging.Logger
	completer llm.Completer
	pipeline  *pipeline.Pipeline
	chat      *chat.Assistant
	store     legal.Store
	legal     *legal.Service

	closers []func()
}

// newApp loads configuration and builds every component. withStore also opens
// the legal store: Postgres when a database URL is set, memory otherwise.
func newApp(ctx context.Context, path string, withStore bool) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	a := &app{cfg: cfg, log: log}
	a.closers = append(a.closers, log.Sync)

	if cfg.Generation.Enabled() {
		gemini, err := llm.NewGeminiCompleter(ctx, llm.NewConfig(cfg.Generation.Model, cfg.Generation.ChatModel), cfg.Generation.APIKey)
		if err != nil {
			a.close()
			return nil, err
		}
		a.completer = gemini
		a.closers = append(a.closers, func() { _ = gemini.Close() })
	} else {
		log.Warn("no generation API key configured, using fallback letters only")
	}

	thresholds, err := fallback.LoadThresholds(cfg.Fallback.ThresholdsFile)
	if err != nil {
		a.close()
		return nil, err
	}

	var resources fs.FS
	if cfg.Resources.Dir != "" {
		resources = os.DirFS(cfg.Resources.Dir)
	}

	opts := pipeline.Options{
		Builder:  prompts.NewBuilder(resources, log),
		Fallback: fallback.New(fallback.Options{Thresholds: thresholds}),
		Logger:   log,
	}
	if a.completer != nil {
		opts.Generator = generation.New(generation.Options{
			Completer:   a.completer,
			MaxRetries:  cfg.Generation.MaxRetries,
			MaxJitter:   cfg.Generation.MaxJitter(),
			Timeout:     cfg.Generation.Timeout(),
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
			Logger:      log,
		})
	}
	a.pipeline = pipeline.New(opts)
	a.chat = chat.New(a.completer, log)

	if withStore {
		if err := a.openStore(ctx); err != nil {
			a.close()
			return nil, err
		}
		a.legal = legal.NewService(legal.Options{Store: a.store, Completer: a.completer, Logger: log})
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	if a.cfg.Database.URL == "" {
		a.log.Info("legal store", "backend", "memory")
		a.store = legal.NewMemoryStore(nil)
		return nil
	}

	database, err := db.Connect(ctx, a.cfg.Database.URL)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, database.Close)
	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	a.log.Info("legal store", "backend", "postgres")
	a.store = db.NewLegalStore(database)
	return nil
}

// close releases resources in reverse acquisition order.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
