package dswe

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultThresholdsValid(t *testing.T) {
	for _, v := range []Version{VersionP3V3, VersionESPAv2} {
		cfg, err := DefaultThresholds(v)
		if err != nil {
			t.Fatalf("DefaultThresholds(%s): %v", v, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("defaults for %s do not validate: %v", v, err)
		}
	}
	if _, err := DefaultThresholds("p4"); !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("unknown version: got %v, want ErrInvalidThreshold", err)
	}
}

func TestP3V3Defaults(t *testing.T) {
	cfg := MustDefaultThresholds(VersionP3V3)
	want := map[string]float64{
		"wigt":         0.0123,
		"awgt":         0,
		"psw1_mndwi":   -0.5,
		"psw2_mndwi":   -0.5,
		"psw1b4":       1500,
		"psw1b5":       1000,
		"psw2b4":       1700,
		"psw2b7":       650,
		"awe_param1":   2.5,
		"awe_param2":   -1.5,
		"awe_param3":   -0.25,
		"ps":           9.0,
		"scale_factor": 0.0001,
	}
	for name, value := range want {
		got, ok := cfg.Get(name)
		if !ok {
			t.Fatalf("Get(%q) not found", name)
		}
		if got != value {
			t.Fatalf("%s = %v, want %v", name, got, value)
		}
	}
}

func TestSetLegacyNames(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		get   func(ThresholdConfig) float64
	}{
		{"WIGT", 0.2, func(c ThresholdConfig) float64 { return c.WIGT }},
		{"pswt_1", -0.3, func(c ThresholdConfig) float64 { return c.PSW1MNDWI }},
		{"pswnt_1", 1400, func(c ThresholdConfig) float64 { return c.PSW1NIR }},
		{"pswst_1", 950, func(c ThresholdConfig) float64 { return c.PSW1SWIR1 }},
		{"pswnt_2", 1600, func(c ThresholdConfig) float64 { return c.PSW2NIR }},
		{"pswst_2", 600, func(c ThresholdConfig) float64 { return c.PSW2SWIR2 }},
		{"PSW2b7", 640, func(c ThresholdConfig) float64 { return c.PSW2SWIR2 }},
		{"--percent-slope", 12, func(c ThresholdConfig) float64 { return c.PercentSlope }},
		{"DSWE_PS", 11, func(c ThresholdConfig) float64 { return c.PercentSlope }},
	}
	for _, tt := range tests {
		cfg := MustDefaultThresholds(VersionP3V3)
		if err := cfg.Set(tt.name, tt.value); err != nil {
			t.Fatalf("Set(%q): %v", tt.name, err)
		}
		if got := tt.get(cfg); got != tt.value {
			t.Fatalf("Set(%q, %v) stored %v", tt.name, tt.value, got)
		}
	}

	cfg := MustDefaultThresholds(VersionP3V3)
	if err := cfg.Set("bogus", 1); !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("Set(bogus): got %v, want ErrInvalidThreshold", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		version Version
		mutate  func(*ThresholdConfig)
		wantErr bool
	}{
		{"wigt too large", VersionP3V3, func(c *ThresholdConfig) { c.WIGT = 2.5 }, true},
		{"nan awgt", VersionP3V3, func(c *ThresholdConfig) { c.AWGT = math.NaN() }, true},
		{"negative band threshold", VersionP3V3, func(c *ThresholdConfig) { c.PSW1NIR = -1 }, true},
		{"slope over 100", VersionP3V3, func(c *ThresholdConfig) { c.PercentSlope = 101 }, true},
		{"zero scale factor", VersionP3V3, func(c *ThresholdConfig) { c.ScaleFactor = 0 }, true},
		{"same cloud and shadow", VersionP3V3, func(c *ThresholdConfig) { c.ShadowCode = c.CloudCode }, true},
		{"unknown version", VersionP3V3, func(c *ThresholdConfig) { c.Version = "p9" }, true},
		{"hillshade unused by p3v3", VersionP3V3, func(c *ThresholdConfig) { c.Hillshade = 300 }, false},
		{"hillshade over 255", VersionESPAv2, func(c *ThresholdConfig) { c.Hillshade = 300 }, true},
		{"ndvi over 1", VersionESPAv2, func(c *ThresholdConfig) { c.PSW1NDVI = 1.5 }, true},
		{"custom slope", VersionESPAv2, func(c *ThresholdConfig) { c.PercentSlopeLow = 15 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MustDefaultThresholds(tt.version)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidThreshold) {
				t.Fatalf("got %v, want ErrInvalidThreshold", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestThresholdNames(t *testing.T) {
	p3 := ThresholdNames(VersionP3V3)
	v2 := ThresholdNames(VersionESPAv2)
	contains := func(names []string, name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
	if !contains(p3, "ps") || contains(p3, "hillshade") {
		t.Fatalf("p3v3 names = %v", p3)
	}
	if contains(v2, "ps") || !contains(v2, "psw1_ndvi") {
		t.Fatalf("espa-v2 names = %v", v2)
	}
	if !MustDefaultThresholds(VersionESPAv2).Uses("pswt_1_ndvi") {
		t.Fatal("espa-v2 should use the NDVI threshold")
	}
}

func TestParseVersion(t *testing.T) {
	tests := map[string]Version{
		"":        VersionP3V3,
		"P3V3":    VersionP3V3,
		"espa-v2": VersionESPAv2,
		" v2 ":    VersionESPAv2,
	}
	for in, want := range tests {
		got, err := ParseVersion(in)
		if err != nil || got != want {
			t.Fatalf("ParseVersion(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseVersion("v3"); !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("ParseVersion(v3): got %v", err)
	}
}
