package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klange77/espa-surface-water-extent/internal/cache"
	"github.com/klange77/espa-surface-water-extent/internal/dataset"
	"github.com/klange77/espa-surface-water-extent/internal/dswe"
	"github.com/klange77/espa-surface-water-extent/internal/log"
	"github.com/klange77/espa-surface-water-extent/internal/properties"
	"github.com/klange77/espa-surface-water-extent/internal/scene"
	"github.com/klange77/espa-surface-water-extent/output"
)

// RunReport describes one classified dataset.
type RunReport struct {
	Input          string        `json:"input"`
	Version        dswe.Version  `json:"version"`
	Table          string        `json:"table"`
	Summary        scene.Summary `json:"summary"`
	ClassifiedPath string        `json:"classified_path"`
	ImagePath      string        `json:"image_path"`
	SummaryPath    string        `json:"summary_path"`
	Elapsed        time.Duration `json:"elapsed"`
	Cached         bool          `json:"-"`
}

// Runner classifies CSV pixel datasets into a result directory.
type Runner struct {
	Classifier *dswe.Classifier
	ResultDir  string
	Options    scene.Options
	ImageScale int
	// Cache skips datasets already classified with the same configuration.
	// Nil disables caching.
	Cache *cache.FileCache[RunReport]
}

// NewRunner builds a runner from the environment configuration.
func NewRunner() (*Runner, error) {
	cfg, err := properties.ThresholdConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading thresholds: %w", err)
	}
	table, err := properties.Table(cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("error loading reclassification table: %w", err)
	}
	classifier, err := dswe.New(cfg, table)
	if err != nil {
		return nil, err
	}
	return &Runner{
		Classifier: classifier,
		ResultDir:  properties.ResultPath(),
		Options:    scene.Options{Workers: properties.Workers()},
		ImageScale: 4,
		Cache:      cache.NewFileCache[RunReport]("runs"),
	}, nil
}

func (r *Runner) cacheKey(inputPath string) (string, error) {
	rows := r.Classifier.Table().Rows()
	return r.Cache.FileKey(inputPath, inputPath, fmt.Sprintf("%+v", r.Classifier.Config()), fmt.Sprintf("%v", rows), r.ResultDir)
}

func filesExist(paths ...string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// ClassifyDataset classifies one CSV dataset and writes the classified rows,
// a quick-look image and a class summary next to each other in ResultDir.
func (r *Runner) ClassifyDataset(ctx context.Context, inputPath string) (RunReport, error) {
	start := time.Now()
	cfg := r.Classifier.Config()

	var key string
	if r.Cache != nil {
		k, err := r.cacheKey(inputPath)
		if err != nil {
			return RunReport{}, err
		}
		key = k
		if report, ok := r.Cache.Get(key); ok && filesExist(report.ClassifiedPath, report.ImagePath, report.SummaryPath) {
			log.Infow("dataset already classified", "input", inputPath, "classified", report.ClassifiedPath)
			report.Cached = true
			return report, nil
		}
	}

	ds, err := dataset.LoadPixelDataset(inputPath, cfg.FillValue)
	if err != nil {
		return RunReport{}, err
	}
	log.Infow("classifying dataset", "input", inputPath, "version", cfg.Version, "table", r.Classifier.Table().Name(),
		"width", ds.Scene.Width, "height", ds.Scene.Height, "rows", len(ds.Rows))

	product, err := scene.Classify(ctx, r.Classifier, ds.Scene, r.Options)
	if err != nil {
		return RunReport{}, fmt.Errorf("error classifying %s: %w", inputPath, err)
	}

	if err := os.MkdirAll(r.ResultDir, 0755); err != nil {
		return RunReport{}, fmt.Errorf("failed to create result directory: %w", err)
	}
	base := filepath.Join(r.ResultDir, fmt.Sprintf("%s_%s_%s",
		strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)), cfg.Version, time.Now().Format("2006-01-02")))

	report := RunReport{
		Input:          inputPath,
		Version:        cfg.Version,
		Table:          r.Classifier.Table().Name(),
		Summary:        product.Summarize(),
		ClassifiedPath: base + "_classified.csv",
		SummaryPath:    base + "_summary.csv",
	}
	if err := dataset.SaveClassified(report.ClassifiedPath, ds.ClassifiedRows(product)); err != nil {
		return RunReport{}, err
	}
	if report.ImagePath, err = output.CreateClassMapImage(product, base+"_map", r.ImageScale); err != nil {
		return RunReport{}, err
	}
	if err := output.CreateSummaryCSV(report.Summary, report.SummaryPath); err != nil {
		return RunReport{}, err
	}
	report.Elapsed = time.Since(start)

	log.Infow("dataset classified", "input", inputPath, "water_pixels", report.Summary.WaterPixels,
		"cloud_pixels", report.Summary.CloudPixels, "fill_pixels", report.Summary.FillPixels, "elapsed", report.Elapsed)

	if r.Cache != nil {
		if err := r.Cache.Set(key, report); err != nil {
			log.Warnf("failed to cache run of %s: %v", inputPath, err)
		}
	}
	return report, nil
}
