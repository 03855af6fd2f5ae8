package dswe

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// TableRow is one line of a CSV reclassification table.
type TableRow struct {
	Diagnostic int   `csv:"diagnostic"`
	Class      uint8 `csv:"class"`
}

// LoadTable reads a reclassification table from disk. Files ending in .csv
// are read as CSV, anything else as an ASCII remap file.
func LoadTable(path string) (*ReclassTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening table %s: %w", path, err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		var rows []TableRow
		if err := gocsv.UnmarshalFile(file, &rows); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTable, path, err)
		}
		return TableFromRows(name, rows)
	}
	return ParseRemap(name, file)
}

// TableFromRows builds a table from CSV rows.
func TableFromRows(name string, rows []TableRow) (*ReclassTable, error) {
	entries := make(map[DiagnosticCode]ClassCode, len(rows))
	for _, row := range rows {
		if _, dup := entries[DiagnosticCode(row.Diagnostic)]; dup {
			return nil, fmt.Errorf("%w: %s: diagnostic code %d listed twice", ErrInvalidTable, name, row.Diagnostic)
		}
		entries[DiagnosticCode(row.Diagnostic)] = ClassCode(row.Class)
	}
	return NewReclassTable(name, entries)
}

// Rows returns the table as CSV rows ordered by diagnostic code.
func (t *ReclassTable) Rows() []TableRow {
	rows := make([]TableRow, 0, len(t.classes))
	for code, class := range t.classes {
		rows = append(rows, TableRow{Diagnostic: int(code), Class: uint8(class)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Diagnostic < rows[j].Diagnostic })
	return rows
}

// SaveTable writes t as a CSV table that LoadTable can read back.
func SaveTable(path string, t *ReclassTable) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating table %s: %w", path, err)
	}
	defer file.Close()

	rows := t.Rows()
	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("error writing table %s: %w", path, err)
	}
	return nil
}

// ParseRemap reads an ArcGIS ASCII remap file. Each line is one of
//
//	old : new
//	low high : new
//	NoData : new
//
// Ranges are inclusive and only cover legal diagnostic codes and the cloud
// sentinel. NoData lines are accepted and ignored since fill pixels never
// reach the table. Text after '#' is a comment.
func ParseRemap(name string, r io.Reader) (*ReclassTable, error) {
	entries := make(map[DiagnosticCode]ClassCode)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		from, to, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %s line %d: missing ':' in %q", ErrInvalidTable, name, lineNo, line)
		}
		class, err := strconv.ParseUint(strings.TrimSpace(to), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: bad class %q", ErrInvalidTable, name, lineNo, strings.TrimSpace(to))
		}

		fields := strings.Fields(from)
		if len(fields) == 1 && strings.EqualFold(fields[0], "nodata") {
			continue
		}
		low, high, err := parseRange(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrInvalidTable, name, lineNo, err)
		}
		codes := codesInRange(low, high)
		if len(codes) == 0 && low == high {
			return nil, fmt.Errorf("%w: %s line %d: %d is not a diagnostic code", ErrInvalidTable, name, lineNo, low)
		}
		for _, code := range codes {
			entries[code] = ClassCode(class)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading table %s: %w", name, err)
	}
	return NewReclassTable(name, entries)
}

func parseRange(fields []string) (int, int, error) {
	switch len(fields) {
	case 1:
		v, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, 0, fmt.Errorf("bad value %q", fields[0])
		}
		return v, v, nil
	case 2:
		low, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, 0, fmt.Errorf("bad range start %q", fields[0])
		}
		high, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, 0, fmt.Errorf("bad range end %q", fields[1])
		}
		if high < low {
			return 0, 0, fmt.Errorf("range %d %d is reversed", low, high)
		}
		return low, high, nil
	}
	return 0, 0, fmt.Errorf("expected one or two values, got %d", len(fields))
}

func codesInRange(low, high int) []DiagnosticCode {
	var codes []DiagnosticCode
	for _, code := range append(AllDiagnosticCodes(), CloudSentinel) {
		if int(code) >= low && int(code) <= high {
			codes = append(codes, code)
		}
	}
	return codes
}
