package dswe

import "math"

// Indexes are the continuous spectral indices the diagnostic tests compare
// against thresholds. MNDWI and NDVI are NaN when their denominator is zero.
type Indexes struct {
	MNDWI float64
	MBSRV float64
	MBSRN float64
	AWEsh float64
	NDVI  float64
}

// normalizedDifference returns (a-b)/(a+b), or NaN when a+b is zero.
func normalizedDifference(a, b float64) float64 {
	denominator := a + b
	if denominator == 0 {
		return math.NaN()
	}
	return (a - b) / denominator
}

// ComputeIndexes derives the spectral indices of one pixel.
func ComputeIndexes(b BandSample, cfg ThresholdConfig) Indexes {
	scaledGreen := b.B2 * cfg.ScaleFactor
	scaledSWIR1 := b.B5 * cfg.ScaleFactor

	idx := Indexes{
		MNDWI: normalizedDifference(scaledGreen, scaledSWIR1),
		MBSRN: b.B4 + b.B5,
		AWEsh: b.B1 + cfg.AWEParam1*b.B2 + cfg.AWEParam2*(b.B4+b.B5) + cfg.AWEParam3*b.B7,
		NDVI:  normalizedDifference(b.B4, b.B3),
	}

	// The production table was tuned with green+red as the visible sum.
	if cfg.Version == VersionESPAv2 {
		idx.MBSRV = b.B2 + b.B3
	} else {
		idx.MBSRV = b.B1 + b.B3
	}
	return idx
}

func (i Indexes) valid() bool {
	return !math.IsNaN(i.MNDWI)
}
