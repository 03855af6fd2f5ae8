package output

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/klange77/espa-surface-water-extent/internal/scene"
)

type SummaryRow struct {
	Class   uint8   `csv:"class"`
	Name    string  `csv:"name"`
	Pixels  int     `csv:"pixels"`
	Percent float64 `csv:"percent"`
}

func SummaryRows(s scene.Summary) []SummaryRow {
	rows := make([]SummaryRow, 0, len(s.Classes))
	for _, c := range s.Classes {
		row := SummaryRow{Class: uint8(c.Class), Name: c.Class.String(), Pixels: c.Pixels}
		if s.Pixels > 0 {
			row.Percent = 100 * float64(c.Pixels) / float64(s.Pixels)
		}
		rows = append(rows, row)
	}
	return rows
}

func CreateSummaryCSV(s scene.Summary, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	rows := SummaryRows(s)
	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
