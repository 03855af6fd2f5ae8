package properties

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/klange77/espa-surface-water-extent/internal/dswe"
)

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func InputPath() string {
	return filepath.Join(RootPath(), "data", "input")
}

func TablesPath() string {
	return filepath.Join(RootPath(), "data", "tables")
}

func ResultPath() string {
	return filepath.Join(RootPath(), "data", "result")
}

func LogPath() string {
	return filepath.Join(RootPath(), "data", "dswe.log")
}

func Debug() bool {
	debug, _ := strconv.ParseBool(os.Getenv("DSWE_DEBUG"))
	return debug
}

func Version() (dswe.Version, error) {
	return dswe.ParseVersion(os.Getenv("DSWE_VERSION"))
}

// TablePath is the reclassification table to load. Empty means the
// built-in table of the version. Relative paths resolve against data/tables.
func TablePath() string {
	path := os.Getenv("DSWE_TABLE")
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(TablesPath(), path)
}

func Workers() int {
	workers, err := strconv.Atoi(os.Getenv("DSWE_WORKERS"))
	if err != nil || workers <= 0 {
		return runtime.NumCPU()
	}
	return workers
}

// ThresholdConfig resolves the thresholds of a run: the version defaults,
// then one DSWE_<NAME> variable per threshold. Legacy names are accepted.
func ThresholdConfig() (dswe.ThresholdConfig, error) {
	version, err := Version()
	if err != nil {
		return dswe.ThresholdConfig{}, err
	}
	cfg, err := dswe.DefaultThresholds(version)
	if err != nil {
		return dswe.ThresholdConfig{}, err
	}

	for _, name := range dswe.KnownNames() {
		value, ok := os.LookupEnv("DSWE_" + strings.ToUpper(name))
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return dswe.ThresholdConfig{}, fmt.Errorf("%w: DSWE_%s=%q is not a number", dswe.ErrInvalidThreshold, strings.ToUpper(name), value)
		}
		if err := cfg.Set(name, v); err != nil {
			return dswe.ThresholdConfig{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return dswe.ThresholdConfig{}, err
	}
	return cfg, nil
}

// Table loads the configured reclassification table.
func Table(version dswe.Version) (*dswe.ReclassTable, error) {
	path := TablePath()
	if path == "" {
		return dswe.DefaultTable(version), nil
	}
	return dswe.LoadTable(path)
}

type Color struct {
	R, G, B uint8
}

// ColorMap colours the final classes in quick-look images.
var ColorMap = map[dswe.ClassCode]Color{
	dswe.ClassNotWater:           {235, 235, 220},
	dswe.ClassHighConfidence:     {0, 40, 200},
	dswe.ClassModerateConfidence: {0, 140, 255},
	dswe.ClassPartialWater:       {115, 200, 255},
	dswe.ClassLowConfidence:      {160, 220, 160},
	dswe.ClassCloud:              {140, 140, 140},
	dswe.ClassFill:               {0, 0, 0},
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}
func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
