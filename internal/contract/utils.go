package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/delaycast/delaycast/schema"
)

// Color variables for console output.
var (
	PassColor  = color.New(color.FgGreen)           // passColor represents a satisfied check.
	FailColor  = color.New(color.FgRed, color.Bold) // failColor represents a violated check.
	MixedColor = color.New(color.FgYellow)          // mixedColor represents disagreeing checks.
	InfoColor  = color.New(color.FgCyan)            // infoColor represents informational values.
)

// GetPlainVerdict returns a plain text label for a test verdict. This is
// the core logic used for CSV, JSON, and table printing.
func GetPlainVerdict(v schema.Verdict) string {
	switch v {
	case schema.PassVerdict:
		return "Pass"
	case schema.FailVerdict:
		return "Fail"
	default:
		return "Mixed"
	}
}

// GetColorVerdict returns a colored verdict label for console output (table).
// It uses GetPlainVerdict to determine the string, and then applies the appropriate color.
func GetColorVerdict(v schema.Verdict) string {
	text := GetPlainVerdict(v)

	switch v {
	case schema.PassVerdict:
		return PassColor.Sprint(text)
	case schema.FailVerdict:
		return FailColor.Sprint(text)
	default: // "Mixed"
		return MixedColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path and format type. It falls back to os.Stdout on error.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetRunDBFilePath returns the path to the SQLite DB file for run-history storage.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".delaycast_runs.db"
	}
	return filepath.Join(homeDir, ".delaycast_runs.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
