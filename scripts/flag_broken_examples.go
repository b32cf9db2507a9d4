//go:build ignore
// +build ignore

// flag_broken_examples.go reads examples_report.json (written by
// verify_examples.go --json) and adds a warning comment to every example
// that failed `nifc check`.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nifc-lang/nifc/scripts/internal/reporttypes"
)

func main() {
	reportFile, err := os.Open("examples_report.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading report: %v\n", err)
		fmt.Println("Run 'make verify-examples' first")
		os.Exit(1)
	}
	defer reportFile.Close()

	var report reporttypes.VerificationReport
	if err := json.NewDecoder(reportFile).Decode(&report); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding JSON: %v\n", err)
		os.Exit(1)
	}

	updated := 0
	for _, result := range report.Results {
		if result.Status != "failed" {
			continue
		}
		filePath := filepath.Join("examples", result.File)
		if err := addWarningHeader(filePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating %s: %v\n", result.File, err)
			continue
		}
		fmt.Printf("Added warning to %s\n", result.File)
		updated++
	}

	fmt.Printf("\nUpdated %d files with warning headers\n", updated)
}

func addWarningHeader(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	contentStr := string(content)

	if strings.Contains(contentStr, "WARNING: this example is currently broken") {
		return nil
	}

	warning := `// WARNING: this example is currently broken
// It demonstrates planned behavior that does not yet typecheck.
// It will fail 'nifc check'. For working examples, see hello.nif.

`

	if strings.HasPrefix(contentStr, "//") {
		lines := strings.Split(contentStr, "\n")
		i := 0
		for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "//") {
			i++
		}
		newLines := append(lines[:i], strings.Split(warning, "\n")...)
		newLines = append(newLines, lines[i:]...)
		contentStr = strings.Join(newLines, "\n")
	} else {
		contentStr = warning + contentStr
	}

	return os.WriteFile(filename, []byte(contentStr), 0o644)
}
