package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/klange77/espa-surface-water-extent/internal/log"
	"github.com/klange77/espa-surface-water-extent/internal/notification"
	"github.com/klange77/espa-surface-water-extent/internal/properties"
	"github.com/klange77/espa-surface-water-extent/internal/ui"
)

func printBanner() {
	figure1 := figure.NewFigure("DSWE", "isometric1", true)
	figure2 := figure.NewFigure("CLI", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

func loadEnv() {
	for _, path := range []string{"../../.env", "../.env", ".env"} {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
	fmt.Printf("\033[33mNo .env file found, using the process environment and defaults.\033[0m\n")
}

func initCLI() {
	defer func() {
		if r := recover(); r != nil {
			pc, file, line, ok := runtime.Caller(3)
			var location string
			if ok {
				fn := runtime.FuncForPC(pc)
				location = fmt.Sprintf("%s:%d in %s", file, line, fn.Name())
			} else {
				location = "Unknown location"
			}

			fmt.Printf("\n\033[31mPANIC: %v\033[0m\n", r)
			fmt.Printf("\033[31mLocation: %s\033[0m\n", location)
			fmt.Printf("\033[31mPlease check the input and try again.\033[0m\n")
			fmt.Printf("\033[31mExiting...\033[0m\n")

			stack := debug.Stack()
			log.Errorw("panic", "value", r, "location", location)
			errMessage := fmt.Sprintf("DSWE CLI panic:\n\n%v\n\nLocation: %s\n\nStack trace:\n%s", r, location, stack)
			if err := notification.SendDiscordErrorNotification(errMessage); err != nil {
				fmt.Printf("\033[31mFailed to send notification: %s\033[0m\n", err.Error())
			}
		}
	}()
	printBanner()
	ui.ShowMenu()
}

func main() {
	loadEnv()

	if err := os.MkdirAll(filepath.Dir(properties.LogPath()), 0755); err != nil {
		fmt.Printf("\033[31mError creating log folder: %s\033[0m\n", err.Error())
		os.Exit(1)
	}
	if err := log.Init(properties.Debug(), properties.LogPath()); err != nil {
		fmt.Printf("\033[31mError initializing logger: %s\033[0m\n", err.Error())
		os.Exit(1)
	}
	defer log.Sync()

	initCLI()
}
