// Package dswe implements the Dynamic Surface Water Extent pixel classifier:
// spectral indices, the five diagnostic water tests, reclassification of the
// diagnostic code into product classes and the cloud/slope override chain.
//
// Everything in this package works on one pixel at a time and holds no
// mutable state, so a Classifier can be shared between goroutines.
package dswe

import "math"

// BandSample is one pixel of surface reflectance in sensor DN units.
// Band names follow Landsat TM/ETM+ numbering.
type BandSample struct {
	B1 float64 `csv:"b1"` // blue
	B2 float64 `csv:"b2"` // green
	B3 float64 `csv:"b3"` // red
	B4 float64 `csv:"b4"` // NIR
	B5 float64 `csv:"b5"` // SWIR1
	B7 float64 `csv:"b7"` // SWIR2
}

// AncillarySample carries the per-pixel inputs that do not come from the
// reflectance bands.
//
// CloudCode is a cfmask category for p3v3 or a pixel QA bit field for
// espa-v2. Hillshade is only consulted when HasHillshade is set.
type AncillarySample struct {
	PercentSlope float64
	CloudCode    uint16
	Hillshade    float64
	HasHillshade bool
}

func (b BandSample) values() [6]float64 {
	return [6]float64{b.B1, b.B2, b.B3, b.B4, b.B5, b.B7}
}

// isFill reports whether any band carries the fill value or is not a number.
func (b BandSample) isFill(fill float64) bool {
	for _, v := range b.values() {
		if v == fill || math.IsNaN(v) {
			return true
		}
	}
	return false
}

// MaskScheme tells the classifier how to read AncillarySample.CloudCode.
type MaskScheme int

const (
	// MaskCFMask reads CloudCode as a categorical cfmask value.
	MaskCFMask MaskScheme = iota
	// MaskPixelQA reads CloudCode as a Landsat pixel QA bit field.
	MaskPixelQA
)

func (m MaskScheme) String() string {
	switch m {
	case MaskCFMask:
		return "cfmask"
	case MaskPixelQA:
		return "pixel_qa"
	default:
		return "unknown"
	}
}

// cfmask categories
const (
	CFMaskClear  uint16 = 0
	CFMaskWater  uint16 = 1
	CFMaskShadow uint16 = 2
	CFMaskSnow   uint16 = 3
	CFMaskCloud  uint16 = 4
	CFMaskFill   uint16 = 255
)

// pixel QA bits
const (
	PixelQAFill   uint16 = 1 << 0
	PixelQAShadow uint16 = 1 << 3
	PixelQASnow   uint16 = 1 << 4
	PixelQACloud  uint16 = 1 << 5
)

// MaskFlags records which constraints removed a pixel from the water classes.
type MaskFlags uint8

const (
	MaskShadow MaskFlags = 1 << iota
	MaskSnow
	MaskCloud
	MaskSlope
	MaskHillshade

	// MaskFillValue replaces the bit field on fill pixels.
	MaskFillValue MaskFlags = 255
)

func (m MaskFlags) Has(flag MaskFlags) bool {
	return m != MaskFillValue && m&flag != 0
}

// maskCondition holds the cloud-mask reading of one pixel.
type maskCondition struct {
	cloud, shadow, snow, fill bool
}

func (c ThresholdConfig) readMask(code uint16) maskCondition {
	switch c.MaskScheme {
	case MaskPixelQA:
		return maskCondition{
			fill:   code&c.MaskFill != 0,
			shadow: code&PixelQAShadow != 0,
			snow:   code&PixelQASnow != 0,
			cloud:  code&PixelQACloud != 0,
		}
	default:
		return maskCondition{
			fill:   code == c.MaskFill,
			shadow: code == c.ShadowCode,
			cloud:  code == c.CloudCode,
			snow:   c.MaskSnow && code == c.SnowCode,
		}
	}
}

func (m maskCondition) flags() MaskFlags {
	var f MaskFlags
	if m.shadow {
		f |= MaskShadow
	}
	if m.snow {
		f |= MaskSnow
	}
	if m.cloud {
		f |= MaskCloud
	}
	return f
}
