package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/klange77/espa-surface-water-extent/internal/delivery"
	"github.com/klange77/espa-surface-water-extent/internal/log"
	"github.com/klange77/espa-surface-water-extent/internal/notification"
	"github.com/klange77/espa-surface-water-extent/internal/properties"
	"github.com/spf13/cobra"
)

var (
	inputDir string
	parallel int
	version  string
	table    string
	workers  int
	noCache  bool
	progress bool
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "classify_batch [dataset.csv ...]",
	Short: "Classify surface water in pixel datasets without the interactive menu",
	Long: `Classifies every '.csv' pixel dataset of the input folder, or the datasets
given as arguments, and writes the classified rows, class map and summary of
each one to data/result. Thresholds are read from DSWE_* variables.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		overrides := map[string]string{"DSWE_VERSION": version, "DSWE_TABLE": table}
		if workers > 0 {
			overrides["DSWE_WORKERS"] = strconv.Itoa(workers)
		}
		if verbose {
			overrides["DSWE_DEBUG"] = "true"
		}
		for key, value := range overrides {
			if value == "" {
				continue
			}
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}

		if err := os.MkdirAll(filepath.Dir(properties.LogPath()), 0755); err != nil {
			return fmt.Errorf("error creating log folder: %w", err)
		}
		return log.Init(properties.Debug(), "stderr", properties.LogPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		log.Sync()
	},
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&inputDir, "input", "i", "", "folder with '.csv' pixel datasets (default data/input)")
	rootCmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "number of datasets classified at once")
	rootCmd.Flags().StringVar(&version, "version", "", "algorithm version, p3v3 or espa-v2 (overrides DSWE_VERSION)")
	rootCmd.Flags().StringVar(&table, "table", "", "reclassification table file (overrides DSWE_TABLE)")
	rootCmd.Flags().IntVarP(&workers, "workers", "n", 0, "tile workers per run (overrides DSWE_WORKERS)")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "classify datasets again even if a saved result exists")
	rootCmd.Flags().BoolVar(&progress, "progress", true, "show a progress bar")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func run(cmd *cobra.Command, args []string) error {
	inputs := args
	if len(inputs) == 0 {
		dir := inputDir
		if dir == "" {
			dir = properties.InputPath()
		}
		var err error
		inputs, err = delivery.ListDatasets(dir)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no '.csv' datasets found in %s", dir)
		}
	}

	runner, err := delivery.NewRunner()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if noCache {
		runner.Cache = nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	reports, err := runner.ClassifyBatch(ctx, inputs, parallel, progress)
	elapsed := time.Since(start)

	for _, report := range reports {
		log.Infow("classified",
			"input", report.Input,
			"version", report.Version,
			"table", report.Table,
			"pixels", report.Summary.Pixels,
			"water_fraction", report.Summary.WaterFraction,
			"cached", report.Cached,
			"classified_path", report.ClassifiedPath,
			"image_path", report.ImagePath,
			"summary_path", report.SummaryPath,
		)
	}
	log.Infow("batch finished", "datasets", len(inputs), "classified", len(reports), "elapsed", elapsed)

	var batchErr *delivery.BatchError
	if errors.As(err, &batchErr) {
		notification.SendDiscordErrorNotification(fmt.Sprintf("DSWE batch\n\nErrors occurred during batch classification:\n%s", batchErr.Error()))
		return err
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	notification.SendDiscordSuccessNotification(fmt.Sprintf("DSWE batch\n\nBatch classification finished!\n - Datasets: %d\n - Processing time: %s", len(reports), elapsed.String()))
	return nil
}

func main() {
	for _, path := range []string{"../../.env", "../.env", ".env"} {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError: %s\033[0m\n", err.Error())
		os.Exit(1)
	}
}
