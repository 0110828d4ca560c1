// Package main is the entry point for the register terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"kassa/internal/config"
	"kassa/internal/console"
	"kassa/internal/core/clock"
	corenumerator "kassa/internal/core/numerator"
	"kassa/internal/domain/auth"
	"kassa/internal/domain/catalogs/product"
	"kassa/internal/domain/documents/receipt"
	"kassa/internal/infrastructure/numerator"
	"kassa/internal/infrastructure/storage/flatfile"
	"kassa/internal/metrics"
	"kassa/pkg/logger"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.IsDevelopment(),
		OutputPaths: cfg.LogOutputs(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx = logger.WithLogger(ctx, log.WithComponent("register"))
	log.Infow("starting register", "data_dir", cfg.Storage.DataDir, "environment", cfg.App.Environment)

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		log.Errorw("register stopped with error", "error", err)
		fmt.Printf("error: %v\n", err)
		_ = log.Sync()
		os.Exit(1)
	}

	log.Info("register stopped")
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	clk := clock.NewRealClock()
	con := console.New(in, out)

	// --- Catalog ---
	catalogCfg := product.CatalogConfig{
		Log:       flatfile.NewLog(cfg.Storage.CatalogPath(), product.Columns),
		Confirmer: con.Confirmer(),
		Clock:     clk,
	}
	if dir := cfg.Storage.SnapshotPath(); dir != "" {
		archive, err := flatfile.NewSnapshotArchive(dir, clk)
		if err != nil {
			return fmt.Errorf("snapshot archive: %w", err)
		}
		defer archive.Close()
		catalogCfg.Archiver = archive
	}
	catalog := product.NewCatalog(catalogCfg)
	if err := catalog.Load(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	// --- Receipts ---
	store := receipt.NewStore(receipt.StoreConfig{
		Partitions: flatfile.NewDailyPartitions(
			cfg.Storage.DataDir,
			cfg.Storage.ReceiptPrefix,
			cfg.Storage.ReceiptExt,
			receipt.Columns,
		),
		Clock: clk,
	})
	store.SetNumerator(numerator.New(store, corenumerator.DefaultConfig()))
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("load receipts: %w", err)
	}

	// --- Admin PIN ---
	gateCfg := auth.DefaultPinGateConfig(cfg.Admin.PinHash)
	gateCfg.MaxAttempts = cfg.Admin.MaxAttempts
	gateCfg.LockDuration = cfg.Admin.LockDuration
	gateCfg.Clock = clk
	gate, err := auth.NewPinGate(gateCfg)
	if err != nil {
		return err
	}

	app := console.NewApp(con, console.AppConfig{
		Catalog: catalog,
		Store:   store,
		Gate:    gate,
	})
	runErr := app.Run(ctx)

	if path := cfg.App.MetricsTextfile; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			logger.Warn(ctx, "failed to write metrics textfile", "path", path, "error", err)
		}
	}
	return runErr
}
