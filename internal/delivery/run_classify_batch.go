package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/klange77/espa-surface-water-extent/internal/log"
	"github.com/schollz/progressbar/v3"
)

// BatchError collects the datasets that failed in a batch.
type BatchError struct {
	Failures map[string]error
}

func (e *BatchError) Error() string {
	inputs := make([]string, 0, len(e.Failures))
	for input := range e.Failures {
		inputs = append(inputs, input)
	}
	sort.Strings(inputs)

	var b strings.Builder
	fmt.Fprintf(&b, "%d datasets failed:", len(inputs))
	for _, input := range inputs {
		fmt.Fprintf(&b, "\n - %s: %v", filepath.Base(input), e.Failures[input])
	}
	return b.String()
}

// ListDatasets returns the CSV files of dir, sorted by name.
func ListDatasets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// ClassifyBatch classifies datasets concurrently, parallel datasets at a
// time. Every dataset is attempted; failures are returned together as a
// *BatchError next to the reports of the datasets that succeeded.
func (r *Runner) ClassifyBatch(ctx context.Context, inputPaths []string, parallel int, progress bool) ([]RunReport, error) {
	if parallel <= 0 {
		parallel = 1
	}

	var (
		mu       sync.Mutex
		reports  []RunReport
		failures = make(map[string]error)
		bar      *progressbar.ProgressBar
	)
	if progress {
		bar = progressbar.Default(int64(len(inputPaths)), "Classifying datasets")
	}

	// tiles of one dataset share the worker budget with the other datasets
	runner := *r
	runner.Options.Progress = false
	if runner.Options.Workers > parallel {
		runner.Options.Workers /= parallel
	}

	wp := workerpool.New(parallel)
	for _, path := range inputPaths {
		p := path
		wp.Submit(func() {
			var report RunReport
			err := ctx.Err()
			if err == nil {
				report, err = runner.ClassifyDataset(ctx, p)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Errorw("dataset failed", "input", p, "error", err)
				failures[p] = err
			} else {
				reports = append(reports, report)
			}
			if bar != nil {
				bar.Add(1)
			}
		})
	}
	wp.StopWait()

	sort.Slice(reports, func(i, j int) bool { return reports[i].Input < reports[j].Input })
	if len(failures) > 0 {
		return reports, &BatchError{Failures: failures}
	}
	return reports, nil
}
