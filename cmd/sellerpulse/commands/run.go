package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/wonny/sellerpulse/internal/contracts"
	"github.com/wonny/sellerpulse/internal/engine"
	"github.com/wonny/sellerpulse/internal/store"
	"github.com/wonny/sellerpulse/pkg/config"
	"github.com/wonny/sellerpulse/pkg/database"
	"github.com/wonny/sellerpulse/pkg/logger"
)

// runCmd executes one batch run of the lifecycle pipeline
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lifecycle pipeline once over the raw feed",
	Long: `Reads the raw per-day metrics feed, runs the lifecycle engine for
every product and upserts the Daily, Segments, Board and Windows tables.

Example:
  go run ./cmd/sellerpulse run
  go run ./cmd/sellerpulse run --shop shop-123`,
	RunE: runOnce,
}

var runShopID string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runShopID, "shop", "", "process a single shop (default: all shops)")
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	return runBatch(cmd.Context(), cfg, db, log)
}

// runBatch processes every shop (or the one selected by --shop) and
// persists the four output tables. One bad shop fails the run; one bad
// product does not.
func runBatch(ctx context.Context, cfg *config.Config, db *database.DB, log zerolog.Logger) error {
	metricsRepo := store.NewMetricsRepository(db.Pool)
	resultsRepo := store.NewResultsRepository(db.Pool)
	eng := engine.New(thresholdsFromConfig(cfg), log)

	shops := []string{runShopID}
	if runShopID == "" {
		var err error
		shops, err = metricsRepo.ListShops(ctx)
		if err != nil {
			return err
		}
	}
	if len(shops) == 0 {
		log.Warn().Msg("no shops found in the raw feed")
		return nil
	}

	bar := progressbar.Default(int64(len(shops)))
	for _, shopID := range shops {
		if err := processShop(ctx, shopID, cfg, metricsRepo, resultsRepo, eng, log); err != nil {
			return fmt.Errorf("shop %s: %w", shopID, err)
		}
		_ = bar.Add(1)
	}
	return nil
}

func processShop(ctx context.Context, shopID string, cfg *config.Config,
	metricsRepo *store.MetricsRepository, resultsRepo *store.ResultsRepository,
	eng *engine.Engine, log zerolog.Logger) error {

	products, err := metricsRepo.CountProducts(ctx, shopID)
	if err != nil {
		return err
	}
	log.Info().Str("shop_id", shopID).Int("products", products).Msg("processing shop")

	rows, err := metricsRepo.FetchShop(ctx, shopID)
	if err != nil {
		return err
	}

	batch := eng.ProcessAll(ctx, rows, cfg.Engine.Workers)

	if err := resultsRepo.SaveDaily(ctx, batch.Daily); err != nil {
		return err
	}
	if err := resultsRepo.SaveSegments(ctx, batch.Segments); err != nil {
		return err
	}
	if err := resultsRepo.SaveBoard(ctx, batch.Board); err != nil {
		return err
	}
	return resultsRepo.SaveWindows(ctx, batch.Windows)
}

// thresholdsFromConfig maps the host-supplied engine settings onto the
// engine's immutable thresholds value.
func thresholdsFromConfig(cfg *config.Config) contracts.Thresholds {
	return contracts.Thresholds{
		OutOfStockRestartDays: cfg.Engine.OutOfStockRestartDays,
		InactivityRestartDays: cfg.Engine.InactivityRestartDays,
		RollingWindowDays:     cfg.Engine.RollingWindowDays,
		LaunchDays:            cfg.Engine.LaunchDays,
		MatureRatio:           cfg.Engine.MatureRatio,
		DeclineRatio:          cfg.Engine.DeclineRatio,
		LowInventoryUnits:     cfg.Engine.LowInventoryUnits,
		CompareWindowDays:     cfg.Engine.CompareWindowDays,
	}
}
