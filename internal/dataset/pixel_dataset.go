package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/klange77/espa-surface-water-extent/internal/dswe"
	"github.com/klange77/espa-surface-water-extent/internal/scene"
)

// PixelRow is one pixel of an input dataset. Hillshade is optional; leave
// the column out or empty on every row to classify without it.
type PixelRow struct {
	X            int     `csv:"x"`
	Y            int     `csv:"y"`
	B1           float64 `csv:"b1"`
	B2           float64 `csv:"b2"`
	B3           float64 `csv:"b3"`
	B4           float64 `csv:"b4"`
	B5           float64 `csv:"b5"`
	B7           float64 `csv:"b7"`
	PercentSlope float64 `csv:"percent_slope"`
	CloudCode    uint16  `csv:"cloud_code"`
	Hillshade    string  `csv:"hillshade"`
}

func (r PixelRow) bands() dswe.BandSample {
	return dswe.BandSample{B1: r.B1, B2: r.B2, B3: r.B3, B4: r.B4, B5: r.B5, B7: r.B7}
}

// PixelDataset is a CSV dataset laid out on its grid.
type PixelDataset struct {
	Rows  []PixelRow
	Scene *scene.Scene
	// Index maps each row to its pixel in Scene.
	Index []int
}

func LoadPixelDataset(path string, fill float64) (*PixelDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pixel dataset: %w", err)
	}
	defer file.Close()

	var rows []PixelRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to read pixel dataset %s: %w", path, err)
	}
	return NewPixelDataset(rows, fill)
}

// NewPixelDataset places rows on the smallest grid that holds them. Grid
// cells without a row get fill bands.
func NewPixelDataset(rows []PixelRow, fill float64) (*PixelDataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: dataset has no pixels", dswe.ErrMissingBand)
	}

	width, height := 0, 0
	withHillshade := strings.TrimSpace(rows[0].Hillshade) != ""
	for i, r := range rows {
		if r.X < 0 || r.Y < 0 {
			return nil, fmt.Errorf("row %d: negative position %d,%d", i+1, r.X, r.Y)
		}
		if (strings.TrimSpace(r.Hillshade) != "") != withHillshade {
			return nil, fmt.Errorf("%w: hillshade missing on some rows (row %d)", dswe.ErrMissingBand, i+1)
		}
		width = max(width, r.X+1)
		height = max(height, r.Y+1)
	}

	s := scene.New(width, height, withHillshade)
	fillBands := dswe.BandSample{B1: fill, B2: fill, B3: fill, B4: fill, B5: fill, B7: fill}
	for i := 0; i < s.Len(); i++ {
		s.Set(i, fillBands, dswe.AncillarySample{})
	}

	ds := &PixelDataset{Rows: rows, Scene: s, Index: make([]int, len(rows))}
	seen := make(map[int]bool, len(rows))
	for i, r := range rows {
		idx := r.Y*width + r.X
		if seen[idx] {
			return nil, fmt.Errorf("row %d: pixel %d,%d listed twice", i+1, r.X, r.Y)
		}
		seen[idx] = true

		a := dswe.AncillarySample{PercentSlope: r.PercentSlope, CloudCode: r.CloudCode}
		if withHillshade {
			hs, err := strconv.ParseFloat(strings.TrimSpace(r.Hillshade), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad hillshade %q", i+1, r.Hillshade)
			}
			a.Hillshade, a.HasHillshade = hs, true
		}
		s.Set(idx, r.bands(), a)
		ds.Index[i] = idx
	}
	return ds, nil
}
