package dswe

import (
	"fmt"
	"math"
)

// Result holds every product of the classification chain for one pixel.
type Result struct {
	// Diagnostic is the raw test code, DiagnosticFill on fill.
	Diagnostic DiagnosticCode
	// MaskedDiagnostic is Diagnostic with masked pixels set to CloudSentinel.
	MaskedDiagnostic DiagnosticCode
	// Interpreted is the table class of Diagnostic.
	Interpreted ClassCode
	// CloudCorrected is the table class of MaskedDiagnostic.
	CloudCorrected ClassCode
	// Final is the class after every override.
	Final ClassCode
	Mask  MaskFlags
}

// FillResult is the result of a pixel that could not be evaluated.
var FillResult = Result{
	Diagnostic:       DiagnosticFill,
	MaskedDiagnostic: DiagnosticFill,
	Interpreted:      ClassFill,
	CloudCorrected:   ClassFill,
	Final:            ClassFill,
	Mask:             MaskFillValue,
}

// IsFill reports whether the pixel was fill.
func (r Result) IsFill() bool {
	return r.Diagnostic == DiagnosticFill
}

type pixel struct {
	bands     BandSample
	ancillary AncillarySample
	mask      maskCondition
}

// override is one step of the chain. Steps run in order and later steps win.
type override func(c *Classifier, p pixel, r *Result)

// Classifier turns pixels into DSWE classes. It is immutable once built.
type Classifier struct {
	cfg   ThresholdConfig
	table *ReclassTable
	chain []override
}

// New validates cfg and builds a classifier. A nil table selects the
// built-in table of cfg.Version.
func New(cfg ThresholdConfig, table *ReclassTable) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		table = DefaultTable(cfg.Version)
	}
	if table.Lookup(CloudSentinel) == ClassFill {
		return nil, fmt.Errorf("%w: %s maps the cloud sentinel to fill", ErrInvalidTable, table.Name())
	}

	c := &Classifier{cfg: cfg, table: table}
	switch cfg.Version {
	case VersionESPAv2:
		c.chain = []override{maskDiagnostic, classSlope, hillshade, cloudClass}
	default:
		c.chain = []override{maskDiagnostic, cloudClass, percentSlope}
	}
	return c, nil
}

func (c *Classifier) Config() ThresholdConfig {
	return c.cfg
}

func (c *Classifier) Table() *ReclassTable {
	return c.table
}

func (c *Classifier) isFill(b BandSample, a AncillarySample, m maskCondition) bool {
	if m.fill || b.isFill(c.cfg.FillValue) || math.IsNaN(a.PercentSlope) {
		return true
	}
	return a.HasHillshade && math.IsNaN(a.Hillshade)
}

// Classify runs the tests and the override chain on one pixel.
func (c *Classifier) Classify(b BandSample, a AncillarySample) Result {
	m := c.cfg.readMask(a.CloudCode)
	if c.isFill(b, a, m) {
		return FillResult
	}
	idx := ComputeIndexes(b, c.cfg)
	if !idx.valid() {
		return FillResult
	}

	code := RunTests(b, idx, c.cfg)
	interpreted := c.table.Lookup(code)
	r := Result{
		Diagnostic:       code,
		MaskedDiagnostic: code,
		Interpreted:      interpreted,
		CloudCorrected:   interpreted,
		Final:            interpreted,
		Mask:             m.flags(),
	}

	p := pixel{bands: b, ancillary: a, mask: m}
	for _, step := range c.chain {
		if r.Final == ClassFill {
			break
		}
		step(c, p, &r)
	}
	return r
}

func (m maskCondition) masked(includeSnow bool) bool {
	return m.cloud || m.shadow || (includeSnow && m.snow)
}

// maskDiagnostic swaps the diagnostic code of masked pixels for the cloud
// sentinel and reclassifies it. Final is left alone.
func maskDiagnostic(c *Classifier, p pixel, r *Result) {
	if !p.mask.masked(c.cfg.MaskSnow) {
		return
	}
	r.MaskedDiagnostic = CloudSentinel
	r.CloudCorrected = c.table.Lookup(CloudSentinel)
}

func cloudClass(c *Classifier, p pixel, r *Result) {
	if p.mask.masked(c.cfg.MaskSnow) {
		r.Final = c.table.Lookup(CloudSentinel)
	}
}

func percentSlope(c *Classifier, p pixel, r *Result) {
	if p.ancillary.PercentSlope >= c.cfg.PercentSlope {
		r.Final = ClassNotWater
		r.Mask |= MaskSlope
	}
}

// classSlope applies the slope limit of the interpreted class.
func classSlope(c *Classifier, p pixel, r *Result) {
	var limit float64
	switch r.Interpreted {
	case ClassHighConfidence:
		limit = c.cfg.PercentSlopeHigh
	case ClassModerateConfidence:
		limit = c.cfg.PercentSlopeModerate
	case ClassPartialWater:
		limit = c.cfg.PercentSlopeWetland
	case ClassLowConfidence:
		limit = c.cfg.PercentSlopeLow
	default:
		return
	}
	if p.ancillary.PercentSlope >= limit {
		r.Final = ClassNotWater
		r.Mask |= MaskSlope
	}
}

// hillshade clears pixels in terrain shadow.
func hillshade(c *Classifier, p pixel, r *Result) {
	if !p.ancillary.HasHillshade {
		return
	}
	if !(p.ancillary.Hillshade > c.cfg.Hillshade) {
		r.Final = ClassNotWater
		r.Mask |= MaskHillshade
	}
}
