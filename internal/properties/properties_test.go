package properties

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/klange77/espa-surface-water-extent/internal/dswe"
)

func TestThresholdConfigDefaults(t *testing.T) {
	t.Setenv("DSWE_VERSION", "")
	cfg, err := ThresholdConfig()
	if err != nil {
		t.Fatalf("ThresholdConfig: %v", err)
	}
	if cfg != dswe.MustDefaultThresholds(dswe.VersionP3V3) {
		t.Fatalf("got %+v, want p3v3 defaults", cfg)
	}
}

func TestThresholdConfigOverrides(t *testing.T) {
	t.Setenv("DSWE_VERSION", "espa-v2")
	t.Setenv("DSWE_WIGT", "0.2")
	t.Setenv("DSWE_PSWNT_1", "1400")
	t.Setenv("DSWE_HILLSHADE", " 90 ")

	cfg, err := ThresholdConfig()
	if err != nil {
		t.Fatalf("ThresholdConfig: %v", err)
	}
	if cfg.Version != dswe.VersionESPAv2 || cfg.WIGT != 0.2 || cfg.PSW1NIR != 1400 || cfg.Hillshade != 90 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestThresholdConfigErrors(t *testing.T) {
	tests := map[string][2]string{
		"not a number": {"DSWE_WIGT", "high"},
		"out of range": {"DSWE_PS", "250"},
		"bad version":  {"DSWE_VERSION", "p9"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			if _, err := ThresholdConfig(); !errors.Is(err, dswe.ErrInvalidThreshold) {
				t.Fatalf("got %v, want ErrInvalidThreshold", err)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ROOT_PATH", root)

	t.Setenv("DSWE_TABLE", "")
	if TablePath() != "" {
		t.Fatalf("TablePath = %q, want empty", TablePath())
	}
	t.Setenv("DSWE_TABLE", "recode.rmp")
	if want := filepath.Join(root, "data", "tables", "recode.rmp"); TablePath() != want {
		t.Fatalf("TablePath = %q, want %q", TablePath(), want)
	}
	if want := filepath.Join(root, "data", "input"); InputPath() != want {
		t.Fatalf("InputPath = %q, want %q", InputPath(), want)
	}

	t.Setenv("DSWE_WORKERS", "3")
	if Workers() != 3 {
		t.Fatalf("Workers = %d, want 3", Workers())
	}
	t.Setenv("DSWE_WORKERS", "-1")
	if Workers() <= 0 {
		t.Fatalf("Workers = %d, want a positive default", Workers())
	}
}

func TestTableBuiltIn(t *testing.T) {
	t.Setenv("DSWE_TABLE", "")
	table, err := Table(dswe.VersionESPAv2)
	if err != nil {
		t.Fatal(err)
	}
	if table.Name() != "espa-v2" {
		t.Fatalf("table = %s, want espa-v2", table.Name())
	}
}

func TestColorMapCoversClasses(t *testing.T) {
	for _, class := range dswe.Classes() {
		if _, ok := ColorMap[class]; !ok {
			t.Fatalf("no colour for class %d", class)
		}
	}
}
