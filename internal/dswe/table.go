package dswe

import (
	"fmt"
	"sort"
)

// ClassCode is a DSWE product class.
type ClassCode uint8

const (
	ClassNotWater           ClassCode = 0
	ClassHighConfidence     ClassCode = 1
	ClassModerateConfidence ClassCode = 2
	ClassPartialWater       ClassCode = 3
	ClassLowConfidence      ClassCode = 4
	ClassCloud              ClassCode = 9
	ClassFill               ClassCode = 255
)

var classNames = map[ClassCode]string{
	ClassNotWater:           "not water",
	ClassHighConfidence:     "water high confidence",
	ClassModerateConfidence: "water moderate confidence",
	ClassPartialWater:       "partial surface water",
	ClassLowConfidence:      "low confidence water or wetland",
	ClassCloud:              "cloud, cloud shadow or snow",
	ClassFill:               "fill",
}

func (c ClassCode) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class %d", uint8(c))
}

// Known reports whether c is one of the product classes.
func (c ClassCode) Known() bool {
	_, ok := classNames[c]
	return ok
}

// IsWater reports whether c is one of the water classes.
func (c ClassCode) IsWater() bool {
	switch c {
	case ClassHighConfidence, ClassModerateConfidence, ClassPartialWater, ClassLowConfidence:
		return true
	}
	return false
}

// Classes lists the product classes in code order.
func Classes() []ClassCode {
	classes := make([]ClassCode, 0, len(classNames))
	for c := range classNames {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

// ReclassTable maps diagnostic codes to product classes. Product versions
// ship different tables, so classifiers take one as configuration.
type ReclassTable struct {
	name    string
	classes map[DiagnosticCode]ClassCode
}

// NewReclassTable builds a table and checks that it covers every diagnostic
// code and the cloud sentinel with known classes.
func NewReclassTable(name string, entries map[DiagnosticCode]ClassCode) (*ReclassTable, error) {
	t := &ReclassTable{name: name, classes: make(map[DiagnosticCode]ClassCode, len(entries))}
	for code, class := range entries {
		if code != CloudSentinel && !code.Valid() {
			return nil, fmt.Errorf("%w: %s: %d is not a diagnostic code", ErrInvalidTable, name, code)
		}
		if !class.Known() {
			return nil, fmt.Errorf("%w: %s: code %d maps to unknown class %d", ErrInvalidTable, name, code, class)
		}
		t.classes[code] = class
	}
	var missing []DiagnosticCode
	for _, code := range AllDiagnosticCodes() {
		if _, ok := t.classes[code]; !ok {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s: no class for diagnostic codes %v", ErrInvalidTable, name, missing)
	}
	if _, ok := t.classes[CloudSentinel]; !ok {
		return nil, fmt.Errorf("%w: %s: no class for cloud sentinel %d", ErrInvalidTable, name, int(CloudSentinel))
	}
	return t, nil
}

func (t *ReclassTable) Name() string {
	return t.name
}

// Lookup returns the class of a diagnostic code. Codes outside the table,
// fill included, map to ClassFill.
func (t *ReclassTable) Lookup(code DiagnosticCode) ClassCode {
	if class, ok := t.classes[code]; ok {
		return class
	}
	return ClassFill
}

// Entries returns a copy of the table.
func (t *ReclassTable) Entries() map[DiagnosticCode]ClassCode {
	out := make(map[DiagnosticCode]ClassCode, len(t.classes))
	for k, v := range t.classes {
		out[k] = v
	}
	return out
}

func tableFromGroups(name string, groups map[ClassCode][]DiagnosticCode) *ReclassTable {
	entries := make(map[DiagnosticCode]ClassCode)
	for class, codes := range groups {
		for _, code := range codes {
			entries[code] = class
		}
	}
	t, err := NewReclassTable(name, entries)
	if err != nil {
		panic(err)
	}
	return t
}

// ESPAv2Table is the recode used by the ESPA production classifier.
func ESPAv2Table() *ReclassTable {
	return tableFromGroups("espa-v2", map[ClassCode][]DiagnosticCode{
		ClassNotWater:           {0, 1, 10, 100, 1000},
		ClassHighConfidence:     {1111, 10111, 11011, 11101, 11110, 11111},
		ClassModerateConfidence: {111, 1011, 1101, 1110, 10011, 10101, 10110, 11001, 11010, 11100},
		ClassPartialWater:       {11000},
		ClassLowConfidence:      {11, 101, 110, 1001, 1010, 1100, 10000, 10001, 10010, 10100},
		ClassCloud:              {CloudSentinel},
	})
}

// P3V3Table is the prototype recode. A pixel needs at least one of the
// MNDWI, MBSR or AWEsh tests to be called water; codes made of the partial
// surface water tests alone are not water.
func P3V3Table() *ReclassTable {
	return tableFromGroups("p3v3", map[ClassCode][]DiagnosticCode{
		ClassNotWater:           {0, 1, 10, 100, 1000, 10000, 11000},
		ClassHighConfidence:     {1111, 10111, 11011, 11101, 11110, 11111},
		ClassModerateConfidence: {111, 1011, 1101, 1110, 10011, 10101, 10110, 11001, 11010, 11100},
		ClassPartialWater:       {11, 101, 110, 1001, 1010, 1100, 10001, 10010, 10100},
		ClassCloud:              {CloudSentinel},
	})
}

// DefaultTable returns the built-in table of a version.
func DefaultTable(v Version) *ReclassTable {
	if v == VersionESPAv2 {
		return ESPAv2Table()
	}
	return P3V3Table()
}
