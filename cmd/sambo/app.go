package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/chris/sambo/config"
	"github.com/chris/sambo/internal/catalog"
	"github.com/chris/sambo/internal/db"
	"github.com/chris/sambo/internal/feedback"
	"github.com/chris/sambo/internal/ledger"
	"github.com/chris/sambo/internal/llm"
	"github.com/chris/sambo/internal/reply"
	"github.com/chris/sambo/internal/scheduler"
	"github.com/chris/sambo/internal/sheets"
	"github.com/chris/sambo/internal/tracker"
	"github.com/chris/sambo/internal/weekly"
	"go.uber.org/zap"
)

// app holds everything the commands share.
type app struct {
	ledger     ledger.Ledger
	store      *db.DB // set for the sqlite backend only
	tracker    *tracker.Tracker
	aggregator *weekly.Aggregator
	generator  *feedback.Generator
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded", zap.Strings("languages", cat.Languages()), zap.Int("images", len(cat.Images())))
	checkImages(cat, cfg.ImagesDir, logger)

	a := &app{}
	switch cfg.LedgerBackend {
	case "sqlite":
		a.store, err = db.Open(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.ledger = a.store
	case "sheets":
		creds, err := cfg.GoogleCredentials()
		if err != nil {
			return nil, err
		}
		a.ledger, err = sheets.New(ctx, sheets.Config{
			SpreadsheetID:   cfg.GoogleSheetID,
			CredentialsJSON: creds,
		}, logger)
		if err != nil {
			return nil, err
		}
	case "memory":
		logger.Warn("using the in-memory ledger, nothing will be kept after exit")
		a.ledger = ledger.NewMemory()
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}
	logger.Info("ledger ready", zap.String("backend", cfg.LedgerBackend))

	var sel *catalog.Selector
	if cfg.Seed != 0 {
		sel = catalog.NewSeededSelector(cat, cfg.Seed)
	} else {
		sel = catalog.NewSelector(cat, rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	composer := reply.Composer{Currency: cfg.Currency, ImagesDir: cfg.ImagesDir}
	a.tracker = tracker.New(a.ledger, sel, composer, cfg.Location, logger)

	client, err := llm.NewClient(ctx, llm.ProviderConfig{
		Provider:  cfg.LLMProvider,
		APIKey:    cfg.LLMKey(),
		AuthToken: cfg.AnthropicToken,
		Model:     cfg.LLMModel,
		BaseURL:   cfg.OllamaBaseURL,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	a.aggregator = &weekly.Aggregator{Ledger: a.ledger, Location: cfg.Location}
	a.generator = &feedback.Generator{
		Client:          client,
		Timeout:         cfg.LLMTimeout,
		MaxPromptTokens: cfg.MaxPromptTokens,
		Currency:        cfg.Currency,
	}
	return a, nil
}

// reports returns the report store, nil when the backend has none.
func (a *app) reports() scheduler.ReportStore {
	if a.store == nil {
		return nil
	}
	return a.store
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// checkImages warns about catalog images missing from disk. Replies for those
// entries go out as text only.
func checkImages(cat *catalog.Catalog, dir string, logger *zap.Logger) {
	if dir == "" {
		return
	}
	missing := 0
	for _, img := range cat.Images() {
		if _, err := os.Stat(filepath.Join(dir, img)); err != nil {
			missing++
			logger.Debug("image missing", zap.String("image", img))
		}
	}
	if missing > 0 {
		logger.Warn("catalog images missing, replies will be text only",
			zap.String("dir", dir), zap.Int("missing", missing), zap.Int("total", len(cat.Images())))
	}
}
