package output

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klange77/espa-surface-water-extent/internal/dswe"
	"github.com/klange77/espa-surface-water-extent/internal/scene"
)

func testProduct(t *testing.T) *scene.Product {
	t.Helper()
	s := scene.New(4, 3, false)
	water := dswe.BandSample{B1: 500, B2: 800, B3: 400, B4: 200, B5: 100, B7: 50}
	for i := 0; i < s.Len(); i++ {
		a := dswe.AncillarySample{}
		if i%3 == 0 {
			a.CloudCode = dswe.CFMaskCloud
		}
		s.Set(i, water, a)
	}
	c, err := dswe.New(dswe.MustDefaultThresholds(dswe.VersionP3V3), nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err := scene.Classify(context.Background(), c, s, scene.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCreateClassMapImage(t *testing.T) {
	p := testProduct(t)
	path, err := CreateClassMapImage(p, filepath.Join(t.TempDir(), "map"), 10)
	if err != nil {
		t.Fatalf("CreateClassMapImage: %v", err)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Fatalf("path = %s, want .png suffix", path)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != legendMinWidth || b.Dy() != 30+10+2*legendSpacing {
		t.Fatalf("image is %dx%d", b.Dx(), b.Dy())
	}

	// pixel 1 is clear water, pixel 0 is cloud
	r, g, bl, _ := img.At(15, 5).RGBA()
	want := classColor(dswe.ClassHighConfidence)
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(bl>>8) != want.B {
		t.Fatalf("water pixel colour = %d,%d,%d", r>>8, g>>8, bl>>8)
	}
}

func TestSummaryRows(t *testing.T) {
	rows := SummaryRows(testProduct(t).Summarize())
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Class != uint8(dswe.ClassHighConfidence) || rows[0].Pixels != 8 {
		t.Fatalf("first row = %+v", rows[0])
	}
	if rows[1].Name != dswe.ClassCloud.String() || rows[1].Pixels != 4 {
		t.Fatalf("second row = %+v", rows[1])
	}

	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := CreateSummaryCSV(testProduct(t).Summarize(), path); err != nil {
		t.Fatalf("CreateSummaryCSV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "class,name,pixels,percent") {
		t.Fatalf("summary csv = %s", data)
	}
}
