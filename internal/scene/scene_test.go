package scene

import (
	"context"
	"errors"
	"testing"

	"github.com/klange77/espa-surface-water-extent/internal/dswe"
)

var (
	water = dswe.BandSample{B1: 500, B2: 800, B3: 400, B4: 200, B5: 100, B7: 50}
	land  = dswe.BandSample{B1: 300, B2: 400, B3: 350, B4: 1200, B5: 900, B7: 500}
	fill  = dswe.BandSample{B1: -9999, B2: -9999, B3: -9999, B4: -9999, B5: -9999, B7: -9999}
)

// testScene builds a grid cycling through water, land, cloudy water, steep
// water and fill pixels.
func testScene(width, height int) *Scene {
	s := New(width, height, false)
	for i := 0; i < s.Len(); i++ {
		switch i % 5 {
		case 0:
			s.Set(i, water, dswe.AncillarySample{})
		case 1:
			s.Set(i, land, dswe.AncillarySample{PercentSlope: 2})
		case 2:
			s.Set(i, water, dswe.AncillarySample{CloudCode: dswe.CFMaskCloud})
		case 3:
			s.Set(i, water, dswe.AncillarySample{PercentSlope: 15})
		case 4:
			s.Set(i, fill, dswe.AncillarySample{})
		}
	}
	return s
}

func p3v3(t *testing.T) *dswe.Classifier {
	t.Helper()
	c, err := dswe.New(dswe.MustDefaultThresholds(dswe.VersionP3V3), nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestClassifyMatchesPixelClassifier(t *testing.T) {
	c := p3v3(t)
	s := testScene(7, 13)
	product, err := Classify(context.Background(), c, s, Options{Workers: 3, TileRows: 2})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	for i := 0; i < s.Len(); i++ {
		if got, want := product.Result(i), c.Classify(s.Pixel(i)); got != want {
			t.Fatalf("pixel %d: %+v != %+v", i, got, want)
		}
	}
	want := []dswe.ClassCode{
		dswe.ClassHighConfidence, dswe.ClassNotWater, dswe.ClassCloud, dswe.ClassNotWater, dswe.ClassFill,
	}
	for i, w := range want {
		if product.Final[i] != w {
			t.Fatalf("final[%d] = %d, want %d", i, product.Final[i], w)
		}
	}
}

func TestClassifyIndependentOfWorkers(t *testing.T) {
	c := p3v3(t)
	s := testScene(31, 29)
	base, err := Classify(context.Background(), c, s, Options{Workers: 1, TileRows: 1000})
	if err != nil {
		t.Fatal(err)
	}
	for _, opts := range []Options{{Workers: 2, TileRows: 1}, {Workers: 8, TileRows: 5}, {}} {
		got, err := Classify(context.Background(), c, s, opts)
		if err != nil {
			t.Fatal(err)
		}
		for i := range base.Final {
			if got.Result(i) != base.Result(i) {
				t.Fatalf("options %+v: pixel %d differs", opts, i)
			}
		}
	}
}

func TestClassifyMissingBand(t *testing.T) {
	c := p3v3(t)

	missing := testScene(4, 4)
	missing.SWIR2 = nil
	short := testScene(4, 4)
	short.PercentSlope = short.PercentSlope[:10]
	badHillshade := testScene(4, 4)
	badHillshade.Hillshade = make([]float64, 3)

	for name, s := range map[string]*Scene{"missing": missing, "short": short, "hillshade": badHillshade, "empty": {}} {
		if _, err := Classify(context.Background(), c, s, Options{}); !errors.Is(err, dswe.ErrMissingBand) {
			t.Fatalf("%s: got %v, want ErrMissingBand", name, err)
		}
	}
}

func TestClassifyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Classify(ctx, p3v3(t), testScene(10, 10), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestSummarize(t *testing.T) {
	product, err := Classify(context.Background(), p3v3(t), testScene(5, 2), Options{})
	if err != nil {
		t.Fatal(err)
	}
	s := product.Summarize()
	if s.Pixels != 10 || s.FillPixels != 2 || s.CloudPixels != 2 || s.WaterPixels != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if s.WaterFraction != 2.0/6.0 {
		t.Fatalf("water fraction = %v, want %v", s.WaterFraction, 2.0/6.0)
	}
	if len(s.Classes) != 4 || s.Classes[0].Class != dswe.ClassNotWater || s.Classes[0].Pixels != 4 {
		t.Fatalf("classes = %+v", s.Classes)
	}
}
