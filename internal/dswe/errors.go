package dswe

import "errors"

var (
	// ErrMissingBand is returned when a band array is absent or not on the scene grid.
	ErrMissingBand = errors.New("missing band data")
	// ErrInvalidThreshold is returned when a configuration value is outside its documented range.
	ErrInvalidThreshold = errors.New("invalid threshold")
	// ErrInvalidTable is returned when a reclassification table is incomplete or malformed.
	ErrInvalidTable = errors.New("invalid reclassification table")
)
