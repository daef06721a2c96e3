package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/wonny/sellerpulse/pkg/config"
	"github.com/wonny/sellerpulse/pkg/database"
	"github.com/wonny/sellerpulse/pkg/logger"
)

// scheduleCmd runs the batch pipeline on a cron schedule
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a cron schedule",
	Long: `Keeps the process alive and runs the full batch on a cron schedule,
typically nightly after the seller feed import lands.

Example:
  go run ./cmd/sellerpulse schedule --cron "30 2 * * *"`,
	RunE: runSchedule,
}

var cronExpr string

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().StringVar(&cronExpr, "cron", "30 2 * * *", "cron schedule for batch runs")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	c := cron.New()
	_, err = c.AddFunc(cronExpr, func() {
		if err := runBatch(cmd.Context(), cfg, db, log); err != nil {
			log.Error().Err(err).Msg("scheduled batch run failed")
			return
		}
		log.Info().Msg("scheduled batch run completed")
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}

	c.Start()
	defer c.Stop()
	log.Info().Str("cron", cronExpr).Msg("scheduler started")

	// Block until interrupted.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("scheduler stopping")
	return nil
}
