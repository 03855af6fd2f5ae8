package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Colors for consistent UI
const (
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorReset  = "\033[0m"
)

var stdin = bufio.NewReader(os.Stdin)

// PrintWarning displays a warning message with consistent formatting
func PrintWarning(message string) {
	fmt.Printf("%s\nWarning:%s\n", ColorYellow, ColorReset)
	fmt.Printf("%s%s%s\n", ColorYellow, message, ColorReset)
}

// PrintError displays an error message with consistent formatting
func PrintError(message string) {
	fmt.Printf("\n%sError: %s%s\n", ColorRed, message, ColorReset)
}

// PrintSuccess displays a success message with consistent formatting
func PrintSuccess(message string) {
	fmt.Printf("\n%s%s%s\n", ColorGreen, message, ColorReset)
}

// PrintInfo displays an info message with consistent formatting
func PrintInfo(message string) {
	fmt.Printf("%s%s%s", ColorBlue, message, ColorReset)
}

// ReadString reads a string from stdin with trimming
func ReadString(prompt string) string {
	PrintInfo(prompt)
	input, err := stdin.ReadString('\n')
	if err == io.EOF && input == "" {
		fmt.Println("\nExiting...")
		os.Exit(0)
	}
	return strings.TrimSpace(input)
}

// ReadInt reads an integer from stdin with validation
func ReadInt(prompt string, min, max int) (int, error) {
	input := ReadString(prompt)
	value, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", input)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("value must be between %d and %d", min, max)
	}
	return value, nil
}

// listFiles returns the names of the files in dir with one of exts.
func listFiles(dir string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading folder %s: %s", dir, err.Error())
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, e := range exts {
			if ext == e {
				names = append(names, entry.Name())
				break
			}
		}
	}
	return names, nil
}

// SelectFile lists the matching files of dir and returns the chosen path.
func SelectFile(dir, kind string, exts ...string) (string, error) {
	names, err := listFiles(dir, exts...)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no %s found in %s", kind, dir)
	}

	fmt.Printf("%s\nAvailable %s:%s\n", ColorGreen, kind, ColorReset)
	for i, name := range names {
		fmt.Printf("%s%d. %s%s\n", ColorGreen, i+1, name, ColorReset)
	}
	choice, err := ReadInt(fmt.Sprintf("Enter the number of the %s you want to use: ", kind), 1, len(names))
	if err != nil {
		return "", err
	}

	selected := names[choice-1]
	fmt.Printf("%sYou selected: %s%s\n", ColorGreen, selected, ColorReset)
	return filepath.Join(dir, selected), nil
}
