package ui

import (
	"fmt"
	"os"

	"github.com/klange77/espa-surface-water-extent/internal/log"
)

type menuOption struct {
	title   string
	handler func()
}

// ShowMenu displays the main menu and handles user input
func ShowMenu() {
	menuOptions := []menuOption{
		{"Classify surface water in a pixel dataset", ClassifyDataset},
		{"Classify every pixel dataset in data/input", ClassifyBatch},
		{"View the thresholds of the configured version", ShowThresholds},
		{"View the reclassification table in use", ShowTable},
		{"Export the built-in reclassification table", ExportTable},
		{"View the list of available pixel datasets", ListDatasets},
		{"Exit the application", func() { fmt.Println("Exiting..."); log.Sync(); os.Exit(0) }},
	}

	for {
		fmt.Println("\033[34m===================\033[0m")
		for i, opt := range menuOptions {
			fmt.Printf("\033[34m%d. %s\033[0m\n", i+1, opt.title)
		}

		choice, err := ReadInt("Please enter your choice: ", 1, len(menuOptions))
		if err != nil {
			PrintError(err.Error())
			continue
		}
		menuOptions[choice-1].handler()
	}
}
