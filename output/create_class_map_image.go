package output

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/klange77/espa-surface-water-extent/internal/dswe"
	"github.com/klange77/espa-surface-water-extent/internal/properties"
	"github.com/klange77/espa-surface-water-extent/internal/scene"
)

const (
	legendSpacing  = 20
	legendMinWidth = 260
)

func classColor(class dswe.ClassCode) color.RGBA {
	c, ok := properties.ColorMap[class]
	if !ok {
		return color.RGBA{255, 0, 255, 255}
	}
	return color.RGBA{c.R, c.G, c.B, 255}
}

// ClassMapImage renders the final classes, each pixel drawn as a
// scale x scale block, above a legend of the classes present.
func ClassMapImage(p *scene.Product, scale int) image.Image {
	if scale < 1 {
		scale = 1
	}
	mapWidth, mapHeight := p.Width*scale, p.Height*scale

	img := image.NewRGBA(image.Rect(0, 0, mapWidth, mapHeight))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			c := classColor(p.Final[y*p.Width+x])
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}

	summary := p.Summarize()
	legendHeight := 10 + len(summary.Classes)*legendSpacing
	width := max(mapWidth, legendMinWidth)

	dc := gg.NewContext(width, mapHeight+legendHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(img, 0, 0)

	legendX := 10
	for i, count := range summary.Classes {
		y := mapHeight + 5 + i*legendSpacing
		c := classColor(count.Class)
		dc.SetRGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
		dc.DrawRectangle(float64(legendX), float64(y), 15, 15)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawRectangle(float64(legendX), float64(y), 15, 15)
		dc.SetLineWidth(1)
		dc.Stroke()

		dc.DrawStringAnchored(fmt.Sprintf("%d %s (%d)", count.Class, count.Class, count.Pixels), float64(legendX+20), float64(y+7), 0, 0.5)
	}
	return dc.Image()
}

func CreateClassMapImage(p *scene.Product, outputImagePath string, scale int) (string, error) {
	if !strings.HasSuffix(outputImagePath, ".png") {
		outputImagePath += ".png"
	}
	if err := gg.SavePNG(outputImagePath, ClassMapImage(p, scale)); err != nil {
		return "", fmt.Errorf("failed to save class map image: %w", err)
	}
	return outputImagePath, nil
}
