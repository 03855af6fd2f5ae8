// Package scene applies the DSWE pixel classifier over whole co-registered
// pixel grids.
package scene

import (
	"context"
	"fmt"
	"runtime"

	"github.com/klange77/espa-surface-water-extent/internal/dswe"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// Scene is a row-major pixel grid. Every array holds Width*Height values.
// Hillshade may be nil.
type Scene struct {
	Width, Height int

	Blue, Green, Red, NIR, SWIR1, SWIR2 []float64

	PercentSlope []float64
	CloudMask    []uint16
	Hillshade    []float64
}

// New allocates an empty scene.
func New(width, height int, withHillshade bool) *Scene {
	n := width * height
	s := &Scene{
		Width:        width,
		Height:       height,
		Blue:         make([]float64, n),
		Green:        make([]float64, n),
		Red:          make([]float64, n),
		NIR:          make([]float64, n),
		SWIR1:        make([]float64, n),
		SWIR2:        make([]float64, n),
		PercentSlope: make([]float64, n),
		CloudMask:    make([]uint16, n),
	}
	if withHillshade {
		s.Hillshade = make([]float64, n)
	}
	return s
}

func (s *Scene) Len() int {
	return s.Width * s.Height
}

// Set stores one pixel.
func (s *Scene) Set(i int, b dswe.BandSample, a dswe.AncillarySample) {
	s.Blue[i], s.Green[i], s.Red[i] = b.B1, b.B2, b.B3
	s.NIR[i], s.SWIR1[i], s.SWIR2[i] = b.B4, b.B5, b.B7
	s.PercentSlope[i] = a.PercentSlope
	s.CloudMask[i] = a.CloudCode
	if s.Hillshade != nil {
		s.Hillshade[i] = a.Hillshade
	}
}

// Pixel returns the samples at index i.
func (s *Scene) Pixel(i int) (dswe.BandSample, dswe.AncillarySample) {
	b := dswe.BandSample{
		B1: s.Blue[i],
		B2: s.Green[i],
		B3: s.Red[i],
		B4: s.NIR[i],
		B5: s.SWIR1[i],
		B7: s.SWIR2[i],
	}
	a := dswe.AncillarySample{
		PercentSlope: s.PercentSlope[i],
		CloudCode:    s.CloudMask[i],
	}
	if s.Hillshade != nil {
		a.Hillshade = s.Hillshade[i]
		a.HasHillshade = true
	}
	return b, a
}

// Validate checks that every required array is present and matches the grid.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: empty grid %dx%d", dswe.ErrMissingBand, s.Width, s.Height)
	}
	n := s.Len()
	bands := []struct {
		name string
		len  int
		nilv bool
	}{
		{"blue", len(s.Blue), s.Blue == nil},
		{"green", len(s.Green), s.Green == nil},
		{"red", len(s.Red), s.Red == nil},
		{"nir", len(s.NIR), s.NIR == nil},
		{"swir1", len(s.SWIR1), s.SWIR1 == nil},
		{"swir2", len(s.SWIR2), s.SWIR2 == nil},
		{"percent_slope", len(s.PercentSlope), s.PercentSlope == nil},
		{"cloud_mask", len(s.CloudMask), s.CloudMask == nil},
	}
	for _, b := range bands {
		if b.nilv {
			return fmt.Errorf("%w: %s", dswe.ErrMissingBand, b.name)
		}
		if b.len != n {
			return fmt.Errorf("%w: %s has %d values, grid has %d", dswe.ErrMissingBand, b.name, b.len, n)
		}
	}
	if s.Hillshade != nil && len(s.Hillshade) != n {
		return fmt.Errorf("%w: hillshade has %d values, grid has %d", dswe.ErrMissingBand, len(s.Hillshade), n)
	}
	return nil
}

// Options tune Classify. Zero values pick defaults.
type Options struct {
	// Workers bounds the number of tiles classified at once. Defaults to GOMAXPROCS.
	Workers int
	// TileRows is the height of one tile. Defaults to 64.
	TileRows int
	// Progress shows a terminal progress bar.
	Progress bool
}

const defaultTileRows = 64

// Classify runs the classifier over every pixel of s. Tiles write disjoint
// slices of the product, so the output does not depend on Workers.
func Classify(ctx context.Context, c *dswe.Classifier, s *Scene, opts Options) (*Product, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	tileRows := opts.TileRows
	if tileRows <= 0 {
		tileRows = defaultTileRows
	}

	product := newProduct(s.Width, s.Height, c.Config().Version)
	tiles := (s.Height + tileRows - 1) / tileRows

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.Default(int64(tiles), "Classifying pixels")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for tile := 0; tile < tiles; tile++ {
		if gctx.Err() != nil {
			break
		}
		start := tile * tileRows * s.Width
		end := min((tile+1)*tileRows, s.Height) * s.Width
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				product.set(i, c.Classify(s.Pixel(i)))
			}
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error classifying scene: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("error classifying scene: %w", err)
	}
	return product, nil
}
