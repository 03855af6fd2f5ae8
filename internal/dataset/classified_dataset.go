package dataset

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/klange77/espa-surface-water-extent/internal/scene"
)

// ClassifiedRow is one pixel of a classified dataset.
type ClassifiedRow struct {
	X                int   `csv:"x"`
	Y                int   `csv:"y"`
	Diagnostic       int   `csv:"diagnostic"`
	MaskedDiagnostic int   `csv:"masked_diagnostic"`
	Interpreted      uint8 `csv:"interpreted"`
	CloudCorrected   uint8 `csv:"cloud_corrected"`
	Final            uint8 `csv:"final"`
	Mask             uint8 `csv:"mask"`
}

// ClassifiedRows pairs every input row with its products, in input order.
func (ds *PixelDataset) ClassifiedRows(p *scene.Product) []ClassifiedRow {
	out := make([]ClassifiedRow, len(ds.Rows))
	for i, row := range ds.Rows {
		r := p.Result(ds.Index[i])
		out[i] = ClassifiedRow{
			X:                row.X,
			Y:                row.Y,
			Diagnostic:       int(r.Diagnostic),
			MaskedDiagnostic: int(r.MaskedDiagnostic),
			Interpreted:      uint8(r.Interpreted),
			CloudCorrected:   uint8(r.CloudCorrected),
			Final:            uint8(r.Final),
			Mask:             uint8(r.Mask),
		}
	}
	return out
}

func SaveClassified(path string, rows []ClassifiedRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("no classified data to save")
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create classified data file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to save classified data to file: %w", err)
	}
	return nil
}

func LoadClassified(path string) ([]ClassifiedRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open classified data file: %w", err)
	}
	defer file.Close()

	var rows []ClassifiedRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to read classified data: %w", err)
	}
	return rows, nil
}
