package ui

import (
	"fmt"

	"github.com/klange77/espa-surface-water-extent/internal/properties"
)

// ListDatasets handles the UI for viewing the available datasets and tables
func ListDatasets() {
	PrintWarning("To add a new dataset, add its '.csv' file at 'data/input' folder.\nColumns: x,y,b1,b2,b3,b4,b5,b7,percent_slope,cloud_code and optionally hillshade.")

	datasets, err := listFiles(properties.InputPath(), ".csv")
	if err != nil {
		PrintError(err.Error())
		return
	}
	fmt.Printf("\n%sAvailable datasets:%s\n", ColorGreen, ColorReset)
	for _, name := range datasets {
		fmt.Printf("%s- %s%s\n", ColorGreen, name, ColorReset)
	}

	tables, err := listFiles(properties.TablesPath(), ".csv", ".rmp", ".txt")
	if err != nil || len(tables) == 0 {
		return
	}
	fmt.Printf("\n%sAvailable reclassification tables:%s\n", ColorGreen, ColorReset)
	for _, name := range tables {
		fmt.Printf("%s- %s%s\n", ColorGreen, name, ColorReset)
	}
}
