package scene

import (
	"sort"

	"github.com/klange77/espa-surface-water-extent/internal/dswe"
)

// Product is the classified grid, one array per result of the chain.
type Product struct {
	Width, Height int
	Version       dswe.Version

	Diagnostic       []dswe.DiagnosticCode
	MaskedDiagnostic []dswe.DiagnosticCode
	Interpreted      []dswe.ClassCode
	CloudCorrected   []dswe.ClassCode
	Final            []dswe.ClassCode
	Mask             []dswe.MaskFlags
}

func newProduct(width, height int, version dswe.Version) *Product {
	n := width * height
	return &Product{
		Width:            width,
		Height:           height,
		Version:          version,
		Diagnostic:       make([]dswe.DiagnosticCode, n),
		MaskedDiagnostic: make([]dswe.DiagnosticCode, n),
		Interpreted:      make([]dswe.ClassCode, n),
		CloudCorrected:   make([]dswe.ClassCode, n),
		Final:            make([]dswe.ClassCode, n),
		Mask:             make([]dswe.MaskFlags, n),
	}
}

func (p *Product) set(i int, r dswe.Result) {
	p.Diagnostic[i] = r.Diagnostic
	p.MaskedDiagnostic[i] = r.MaskedDiagnostic
	p.Interpreted[i] = r.Interpreted
	p.CloudCorrected[i] = r.CloudCorrected
	p.Final[i] = r.Final
	p.Mask[i] = r.Mask
}

// Result returns the products of pixel i.
func (p *Product) Result(i int) dswe.Result {
	return dswe.Result{
		Diagnostic:       p.Diagnostic[i],
		MaskedDiagnostic: p.MaskedDiagnostic[i],
		Interpreted:      p.Interpreted[i],
		CloudCorrected:   p.CloudCorrected[i],
		Final:            p.Final[i],
		Mask:             p.Mask[i],
	}
}

// ClassCount is the number of pixels of one class.
type ClassCount struct {
	Class  dswe.ClassCode `json:"class"`
	Pixels int            `json:"pixels"`
}

// Summary describes the final class array.
type Summary struct {
	Version     dswe.Version `json:"version"`
	Pixels      int          `json:"pixels"`
	FillPixels  int          `json:"fill_pixels"`
	CloudPixels int          `json:"cloud_pixels"`
	WaterPixels int          `json:"water_pixels"`
	// WaterFraction is water over the pixels that are neither fill nor cloud.
	WaterFraction float64      `json:"water_fraction"`
	Classes       []ClassCount `json:"classes"`
}

// Summarize counts the final classes.
func (p *Product) Summarize() Summary {
	counts := make(map[dswe.ClassCode]int)
	for _, c := range p.Final {
		counts[c]++
	}

	s := Summary{Version: p.Version, Pixels: len(p.Final)}
	for class, n := range counts {
		s.Classes = append(s.Classes, ClassCount{Class: class, Pixels: n})
		switch {
		case class == dswe.ClassFill:
			s.FillPixels += n
		case class == dswe.ClassCloud:
			s.CloudPixels += n
		case class.IsWater():
			s.WaterPixels += n
		}
	}
	sort.Slice(s.Classes, func(i, j int) bool { return s.Classes[i].Class < s.Classes[j].Class })

	if clear := s.Pixels - s.FillPixels - s.CloudPixels; clear > 0 {
		s.WaterFraction = float64(s.WaterPixels) / float64(clear)
	}
	return s
}
