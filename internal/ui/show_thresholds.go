package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klange77/espa-surface-water-extent/internal/dswe"
	"github.com/klange77/espa-surface-water-extent/internal/properties"
)

// ShowThresholds prints the resolved thresholds, marking overridden ones.
func ShowThresholds() {
	cfg, err := properties.ThresholdConfig()
	if err != nil {
		PrintError(err.Error())
		return
	}
	defaults := dswe.MustDefaultThresholds(cfg.Version)

	fmt.Printf("%s\nThresholds for %s (mask scheme %s):%s\n", ColorGreen, cfg.Version, cfg.MaskScheme, ColorReset)
	for _, name := range dswe.ThresholdNames(cfg.Version) {
		value, _ := cfg.Get(name)
		def, _ := defaults.Get(name)
		marker := ""
		if value != def {
			marker = fmt.Sprintf("  (default %v)", def)
		}
		fmt.Printf("%s%-24s %v%s%s\n", ColorGreen, name, value, marker, ColorReset)
	}
	PrintWarning("Override a threshold with DSWE_<NAME> in the .env file, e.g. DSWE_WIGT=0.1.")
}

// ShowTable prints the reclassification table in use, grouped by class.
func ShowTable() {
	cfg, err := properties.ThresholdConfig()
	if err != nil {
		PrintError(err.Error())
		return
	}
	table, err := properties.Table(cfg.Version)
	if err != nil {
		PrintError(err.Error())
		return
	}

	groups := make(map[dswe.ClassCode][]dswe.DiagnosticCode)
	for code, class := range table.Entries() {
		groups[class] = append(groups[class], code)
	}

	fmt.Printf("%s\nReclassification table %s:%s\n", ColorGreen, table.Name(), ColorReset)
	for _, class := range dswe.Classes() {
		codes := groups[class]
		if len(codes) == 0 {
			continue
		}
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
		fmt.Printf("%s%d %s:%s\n", ColorGreen, class, class, ColorReset)
		for _, code := range codes {
			fmt.Printf("    %v", code)
		}
		fmt.Println()
	}
}

// ExportTable writes the built-in table of the configured version to
// data/tables as a CSV that can be edited and selected with DSWE_TABLE.
func ExportTable() {
	version, err := properties.Version()
	if err != nil {
		PrintError(err.Error())
		return
	}
	if err := os.MkdirAll(properties.TablesPath(), 0755); err != nil {
		PrintError(err.Error())
		return
	}
	path := filepath.Join(properties.TablesPath(), string(version)+".csv")
	if err := dswe.SaveTable(path, dswe.DefaultTable(version)); err != nil {
		PrintError(err.Error())
		return
	}
	PrintSuccess(fmt.Sprintf("Table written to %s", path))
}
