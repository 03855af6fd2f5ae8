package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/klange77/espa-surface-water-extent/internal/delivery"
	"github.com/klange77/espa-surface-water-extent/internal/log"
	"github.com/klange77/espa-surface-water-extent/internal/notification"
	"github.com/klange77/espa-surface-water-extent/internal/properties"
)

// ClassifyBatch handles the UI for classifying every dataset in data/input
func ClassifyBatch() {
	inputs, err := delivery.ListDatasets(properties.InputPath())
	if err != nil {
		PrintError(err.Error())
		return
	}
	if len(inputs) == 0 {
		PrintWarning("No '.csv' datasets found in data/input.")
		return
	}

	parallel, err := ReadInt(fmt.Sprintf("How many datasets should be classified at once (1-%d)? ", len(inputs)), 1, len(inputs))
	if err != nil {
		PrintError(err.Error())
		return
	}
	runner, ok := newRunner()
	if !ok {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	reports, err := runner.ClassifyBatch(ctx, inputs, parallel, true)
	elapsed := time.Since(start)

	for _, report := range reports {
		printReport(report)
	}

	var batchErr *delivery.BatchError
	if errors.As(err, &batchErr) {
		PrintError(batchErr.Error())
		notification.SendDiscordErrorNotification(fmt.Sprintf("DSWE CLI\n\nErrors occurred during batch classification:\n%s", batchErr.Error()))
	} else if err != nil {
		PrintError(err.Error())
		return
	}

	log.Infow("batch finished", "datasets", len(inputs), "classified", len(reports), "elapsed", elapsed)
	PrintSuccess(fmt.Sprintf("%d of %d datasets classified in %s", len(reports), len(inputs), elapsed.Round(time.Millisecond)))
	if len(reports) > 0 {
		notification.SendDiscordSuccessNotification(fmt.Sprintf("DSWE CLI\n\nBatch classification finished!\n - Datasets: %d of %d\n - Processing time: %s", len(reports), len(inputs), elapsed.String()))
	}
}
