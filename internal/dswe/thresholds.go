package dswe

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Version selects threshold defaults, the built-in reclassification table,
// the shape of the partial surface water tests and the override chain.
type Version string

const (
	// VersionP3V3 is the prototype 3 version 3 algorithm (cfmask, single slope threshold).
	VersionP3V3 Version = "p3v3"
	// VersionESPAv2 is the ESPA production algorithm (pixel QA, per-class slope, hillshade).
	VersionESPAv2 Version = "espa-v2"
)

func (v Version) valid() bool {
	return v == VersionP3V3 || v == VersionESPAv2
}

// ParseVersion accepts a version tag, ignoring case. An empty tag means p3v3.
func ParseVersion(s string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(VersionP3V3), "p3":
		return VersionP3V3, nil
	case string(VersionESPAv2), "espa", "v2":
		return VersionESPAv2, nil
	}
	return "", fmt.Errorf("%w: unknown version %q", ErrInvalidThreshold, s)
}

// ThresholdConfig is the full set of thresholds used by every test and
// override. Band thresholds are in sensor DN units, like the bands.
type ThresholdConfig struct {
	Version Version

	WIGT float64
	AWGT float64

	PSW1MNDWI float64
	PSW1NIR   float64
	PSW1SWIR1 float64
	PSW1NDVI  float64

	PSW2MNDWI float64
	PSW2Blue  float64
	PSW2NIR   float64
	PSW2SWIR1 float64
	PSW2SWIR2 float64

	AWEParam1 float64
	AWEParam2 float64
	AWEParam3 float64

	PercentSlope         float64
	PercentSlopeHigh     float64
	PercentSlopeModerate float64
	PercentSlopeWetland  float64
	PercentSlopeLow      float64
	Hillshade            float64

	ScaleFactor float64
	FillValue   float64

	MaskScheme MaskScheme
	CloudCode  uint16
	ShadowCode uint16
	SnowCode   uint16
	MaskFill   uint16
	MaskSnow   bool
}

// DefaultThresholds returns the documented defaults for a version.
func DefaultThresholds(v Version) (ThresholdConfig, error) {
	switch v {
	case VersionP3V3, "":
		return ThresholdConfig{
			Version:      VersionP3V3,
			WIGT:         0.0123,
			AWGT:         0.0,
			PSW1MNDWI:    -0.5,
			PSW1NIR:      1500,
			PSW1SWIR1:    1000,
			PSW2MNDWI:    -0.5,
			PSW2NIR:      1700,
			PSW2SWIR2:    650,
			AWEParam1:    2.5,
			AWEParam2:    -1.5,
			AWEParam3:    -0.25,
			PercentSlope: 9.0,
			ScaleFactor:  0.0001,
			FillValue:    -9999,
			MaskScheme:   MaskCFMask,
			CloudCode:    CFMaskCloud,
			ShadowCode:   CFMaskShadow,
			SnowCode:     CFMaskSnow,
			MaskFill:     CFMaskFill,
		}, nil
	case VersionESPAv2:
		return ThresholdConfig{
			Version:              VersionESPAv2,
			WIGT:                 0.124,
			AWGT:                 0.0,
			PSW1MNDWI:            -0.44,
			PSW1NIR:              1500,
			PSW1SWIR1:            900,
			PSW1NDVI:             0.7,
			PSW2MNDWI:            -0.5,
			PSW2Blue:             1000,
			PSW2NIR:              2500,
			PSW2SWIR1:            3000,
			PSW2SWIR2:            1000,
			AWEParam1:            2.5,
			AWEParam2:            -1.5,
			AWEParam3:            -0.25,
			PercentSlopeHigh:     30,
			PercentSlopeModerate: 30,
			PercentSlopeWetland:  20,
			PercentSlopeLow:      10,
			Hillshade:            110,
			ScaleFactor:          0.0001,
			FillValue:            -9999,
			MaskScheme:           MaskPixelQA,
			MaskFill:             PixelQAFill,
			MaskSnow:             true,
		}, nil
	}
	return ThresholdConfig{}, fmt.Errorf("%w: unknown version %q", ErrInvalidThreshold, v)
}

// MustDefaultThresholds is DefaultThresholds for versions known at compile time.
func MustDefaultThresholds(v Version) ThresholdConfig {
	cfg, err := DefaultThresholds(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

type parameter struct {
	name     string
	aliases  []string
	versions []Version
	min, max float64
	field    func(*ThresholdConfig) *float64
}

func (p parameter) usedBy(v Version) bool {
	for _, pv := range p.versions {
		if pv == v {
			return true
		}
	}
	return false
}

var (
	both   = []Version{VersionP3V3, VersionESPAv2}
	p3Only = []Version{VersionP3V3}
	v2Only = []Version{VersionESPAv2}
	inf    = math.Inf(1)
)

// Index thresholds lie within [-2, 2], band thresholds are non-negative
// and slopes lie within [0, 100].
var parameters = []parameter{
	{"wigt", []string{"mndwi"}, both, 0, 2, func(c *ThresholdConfig) *float64 { return &c.WIGT }},
	{"awgt", []string{"awesh"}, both, -inf, inf, func(c *ThresholdConfig) *float64 { return &c.AWGT }},
	{"psw1_mndwi", []string{"pswt_1", "pswt_1_mndwi", "pswt"}, both, -2, 2, func(c *ThresholdConfig) *float64 { return &c.PSW1MNDWI }},
	{"psw1b4", []string{"psw1_nir", "pswnt_1", "pswt_1_nir", "pswnt"}, both, 0, inf, func(c *ThresholdConfig) *float64 { return &c.PSW1NIR }},
	{"psw1b5", []string{"psw1_swir1", "pswst_1", "pswt_1_swir1", "pswst"}, both, 0, inf, func(c *ThresholdConfig) *float64 { return &c.PSW1SWIR1 }},
	{"psw1_ndvi", []string{"pswt_1_ndvi"}, v2Only, -1, 1, func(c *ThresholdConfig) *float64 { return &c.PSW1NDVI }},
	{"psw2_mndwi", []string{"pswt_2", "pswt_2_mndwi"}, both, -2, 2, func(c *ThresholdConfig) *float64 { return &c.PSW2MNDWI }},
	{"psw2_blue", []string{"pswt_2_blue"}, v2Only, 0, inf, func(c *ThresholdConfig) *float64 { return &c.PSW2Blue }},
	{"psw2b4", []string{"psw2_nir", "pswnt_2", "pswt_2_nir"}, both, 0, inf, func(c *ThresholdConfig) *float64 { return &c.PSW2NIR }},
	{"psw2_swir1", []string{"pswt_2_swir1"}, v2Only, 0, inf, func(c *ThresholdConfig) *float64 { return &c.PSW2SWIR1 }},
	{"psw2b7", []string{"psw2_swir2", "pswst_2", "pswt_2_swir2"}, both, 0, inf, func(c *ThresholdConfig) *float64 { return &c.PSW2SWIR2 }},
	{"awe_param1", nil, both, -inf, inf, func(c *ThresholdConfig) *float64 { return &c.AWEParam1 }},
	{"awe_param2", nil, both, -inf, inf, func(c *ThresholdConfig) *float64 { return &c.AWEParam2 }},
	{"awe_param3", nil, both, -inf, inf, func(c *ThresholdConfig) *float64 { return &c.AWEParam3 }},
	{"ps", []string{"percent_slope", "per_slope"}, p3Only, 0, 100, func(c *ThresholdConfig) *float64 { return &c.PercentSlope }},
	{"percent_slope_high", nil, v2Only, 0, 100, func(c *ThresholdConfig) *float64 { return &c.PercentSlopeHigh }},
	{"percent_slope_moderate", nil, v2Only, 0, 100, func(c *ThresholdConfig) *float64 { return &c.PercentSlopeModerate }},
	{"percent_slope_wetland", nil, v2Only, 0, 100, func(c *ThresholdConfig) *float64 { return &c.PercentSlopeWetland }},
	{"percent_slope_low", nil, v2Only, 0, 100, func(c *ThresholdConfig) *float64 { return &c.PercentSlopeLow }},
	{"hillshade", nil, v2Only, 0, 255, func(c *ThresholdConfig) *float64 { return &c.Hillshade }},
	{"scale_factor", nil, both, 0, 1, func(c *ThresholdConfig) *float64 { return &c.ScaleFactor }},
	{"fill_value", nil, both, -inf, inf, func(c *ThresholdConfig) *float64 { return &c.FillValue }},
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "dswe_")
	name = strings.TrimLeft(name, "-")
	return strings.ReplaceAll(name, "-", "_")
}

func lookupParameter(name string) (parameter, bool) {
	name = normalizeName(name)
	for _, p := range parameters {
		if p.name == name {
			return p, true
		}
		for _, alias := range p.aliases {
			if alias == name {
				return p, true
			}
		}
	}
	return parameter{}, false
}

// Set assigns a threshold by canonical or legacy option name, e.g. "WIGT",
// "PSW1b4" or "pswnt_1". Range checks are left to Validate.
func (c *ThresholdConfig) Set(name string, value float64) error {
	p, ok := lookupParameter(name)
	if !ok {
		return fmt.Errorf("%w: unknown threshold %q", ErrInvalidThreshold, name)
	}
	*p.field(c) = value
	return nil
}

// Get returns a threshold by canonical or legacy option name.
func (c ThresholdConfig) Get(name string) (float64, bool) {
	p, ok := lookupParameter(name)
	if !ok {
		return 0, false
	}
	return *p.field(&c), true
}

// Uses reports whether the named threshold takes part in c's version.
func (c ThresholdConfig) Uses(name string) bool {
	p, ok := lookupParameter(name)
	return ok && p.usedBy(c.Version)
}

// ThresholdNames lists the canonical names used by a version, in display order.
func ThresholdNames(v Version) []string {
	var names []string
	for _, p := range parameters {
		if p.usedBy(v) {
			names = append(names, p.name)
		}
	}
	return names
}

// KnownNames lists every accepted name, canonical and legacy, sorted.
func KnownNames() []string {
	var names []string
	for _, p := range parameters {
		names = append(names, p.name)
		names = append(names, p.aliases...)
	}
	sort.Strings(names)
	return names
}

// Validate checks every threshold the version uses against its range.
func (c ThresholdConfig) Validate() error {
	if !c.Version.valid() {
		return fmt.Errorf("%w: unknown version %q", ErrInvalidThreshold, c.Version)
	}
	for _, p := range parameters {
		if !p.usedBy(c.Version) {
			continue
		}
		v := *p.field(&c)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be a finite number, got %v", ErrInvalidThreshold, p.name, v)
		}
		if v < p.min || v > p.max {
			return fmt.Errorf("%w: %s %v outside [%v, %v]", ErrInvalidThreshold, p.name, v, p.min, p.max)
		}
	}
	if c.ScaleFactor == 0 {
		return fmt.Errorf("%w: scale_factor must be positive", ErrInvalidThreshold)
	}
	if c.MaskScheme != MaskCFMask && c.MaskScheme != MaskPixelQA {
		return fmt.Errorf("%w: unknown mask scheme %d", ErrInvalidThreshold, c.MaskScheme)
	}
	if c.MaskScheme == MaskCFMask && c.CloudCode == c.ShadowCode {
		return fmt.Errorf("%w: cloud and shadow codes must differ, both are %d", ErrInvalidThreshold, c.CloudCode)
	}
	return nil
}
