package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/klange77/espa-surface-water-extent/internal/delivery"
	"github.com/klange77/espa-surface-water-extent/internal/log"
	"github.com/klange77/espa-surface-water-extent/internal/notification"
	"github.com/klange77/espa-surface-water-extent/internal/properties"
)

func newRunner() (*delivery.Runner, bool) {
	runner, err := delivery.NewRunner()
	if err != nil {
		PrintError(fmt.Sprintf("Invalid configuration: %s", err.Error()))
		log.Errorw("invalid configuration", "error", err)
		return nil, false
	}
	return runner, true
}

func printReport(report delivery.RunReport) {
	s := report.Summary
	fmt.Printf("%s\nInput: %s\nVersion: %s, table: %s%s\n", ColorGreen, report.Input, report.Version, report.Table, ColorReset)
	fmt.Printf("%s%-34s %8s %8s%s\n", ColorGreen, "Class", "Pixels", "Percent", ColorReset)
	for _, c := range s.Classes {
		percent := 0.0
		if s.Pixels > 0 {
			percent = 100 * float64(c.Pixels) / float64(s.Pixels)
		}
		fmt.Printf("%s%-34s %8d %7.2f%%%s\n", ColorGreen, fmt.Sprintf("%d %s", c.Class, c.Class), c.Pixels, percent, ColorReset)
	}
	fmt.Printf("%sWater fraction of clear pixels: %.2f%%%s\n", ColorGreen, 100*s.WaterFraction, ColorReset)
	fmt.Printf("%sClassified rows: %s\nClass map: %s\nSummary: %s%s\n", ColorGreen, report.ClassifiedPath, report.ImagePath, report.SummaryPath, ColorReset)
}

func reportFields(report delivery.RunReport) []notification.DiscordField {
	return []notification.DiscordField{
		{Name: "Version", Value: string(report.Version), Inline: true},
		{Name: "Table", Value: report.Table, Inline: true},
		{Name: "Pixels", Value: fmt.Sprintf("%d", report.Summary.Pixels), Inline: true},
		{Name: "Water", Value: fmt.Sprintf("%.2f%%", 100*report.Summary.WaterFraction), Inline: true},
		{Name: "Cloud", Value: fmt.Sprintf("%d", report.Summary.CloudPixels), Inline: true},
		{Name: "Processing time", Value: report.Elapsed.String(), Inline: true},
	}
}

// ClassifyDataset handles the UI for classifying one pixel dataset
func ClassifyDataset() {
	PrintWarning("The input data should be a '.csv' file present in data/input folder.\nResults are written to data/result.")

	inputPath, err := SelectFile(properties.InputPath(), "datasets", ".csv")
	if err != nil {
		PrintError(err.Error())
		return
	}
	runner, ok := newRunner()
	if !ok {
		return
	}
	runner.Options.Progress = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := runner.ClassifyDataset(ctx, inputPath)
	if err != nil {
		PrintError(fmt.Sprintf("Error classifying dataset: %s", err.Error()))
		log.Errorw("classification failed", "input", inputPath, "error", err)
		if !errors.Is(err, context.Canceled) {
			notification.SendDiscordErrorNotification(fmt.Sprintf("DSWE CLI\n\nError classifying %s: %s", inputPath, err.Error()))
		}
		return
	}

	if report.Cached {
		PrintWarning("This dataset was already classified with the same configuration; showing the saved result.")
	}
	PrintSuccess("Dataset classified successfully!")
	printReport(report)
	if !report.Cached {
		if err := notification.SendDiscordSuccessNotification(fmt.Sprintf("DSWE CLI\n\nClassified %s", report.Input), reportFields(report)...); err != nil {
			log.Warnf("failed to send success notification: %v", err)
		}
	}
}
