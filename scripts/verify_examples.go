//go:build ignore
// +build ignore

// verify_examples.go runs `nifc check` over every .nif file under
// examples/ and reports which ones lex/parse/typecheck cleanly.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nifc-lang/nifc/scripts/internal/reporttypes"
)

func main() {
	switch {
	case len(os.Args) > 1 && os.Args[1] == "--json":
		verifyExamplesJSON()
	case len(os.Args) > 1 && os.Args[1] == "--markdown":
		verifyExamplesMarkdown()
	default:
		verifyExamplesPlain()
	}
}

func runExample(filename string) reporttypes.ExampleResult {
	start := time.Now()
	result := reporttypes.ExampleResult{File: filename}

	if !strings.HasSuffix(filename, ".nif") {
		result.Status = "skipped"
		result.Duration = time.Since(start)
		return result
	}
	if strings.Contains(filename, "_broken") {
		result.Status = "skipped"
		result.Duration = time.Since(start)
		return result
	}

	cmd := exec.Command("go", "run", "./cmd/nifc", "check", filename)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result.Duration = time.Since(start)
	result.Output = stdout.String()

	if err != nil {
		result.Status = "failed"
		result.Error = stderr.String()
		if result.Error == "" {
			result.Error = err.Error()
		}
	} else {
		result.Status = "passed"
	}
	return result
}

func findAllExamples() ([]string, error) {
	var files []string
	err := filepath.Walk("examples", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".nif") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func verifyExamplesPlain() {
	files, err := findAllExamples()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding examples: %v\n", err)
		os.Exit(1)
	}
	sort.Strings(files)

	passed, failed, skipped := 0, 0, 0
	fmt.Println("Verifying nifc Examples")
	fmt.Println("=======================")

	for _, file := range files {
		displayName := strings.TrimPrefix(file, "examples/")
		fmt.Printf("Checking %s... ", displayName)

		result := runExample(file)
		switch result.Status {
		case "passed":
			fmt.Printf("✓ PASS (%.2fs)\n", result.Duration.Seconds())
			passed++
		case "failed":
			fmt.Printf("✗ FAIL (%.2fs)\n", result.Duration.Seconds())
			if result.Error != "" {
				fmt.Printf("  Error: %s\n", strings.TrimSpace(result.Error))
			}
			failed++
		case "skipped":
			fmt.Printf("- SKIP\n")
			skipped++
		}
	}

	fmt.Println("\nSummary:")
	fmt.Printf("  Total: %d\n", passed+failed+skipped)
	fmt.Printf("  Passed: %d\n", passed)
	fmt.Printf("  Failed: %d\n", failed)
	fmt.Printf("  Skipped: %d\n", skipped)

	if failed > 0 {
		os.Exit(1)
	}
}

func verifyExamplesJSON() {
	files, err := findAllExamples()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding examples: %v\n", err)
		os.Exit(1)
	}
	sort.Strings(files)

	report := reporttypes.VerificationReport{
		Timestamp: time.Now(),
		Results:   []reporttypes.ExampleResult{},
	}

	for _, file := range files {
		result := runExample(file)
		result.File = strings.TrimPrefix(file, "examples/")
		report.Results = append(report.Results, result)

		switch result.Status {
		case "passed":
			report.Passed++
		case "failed":
			report.Failed++
		case "skipped":
			report.Skipped++
		}
	}
	report.TotalExamples = len(report.Results)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}

func verifyExamplesMarkdown() {
	files, err := findAllExamples()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding examples: %v\n", err)
		os.Exit(1)
	}
	sort.Strings(files)

	var passed, failed, skipped []string
	for _, file := range files {
		displayName := strings.TrimPrefix(file, "examples/")
		result := runExample(file)
		switch result.Status {
		case "passed":
			passed = append(passed, displayName)
		case "failed":
			failed = append(failed, displayName)
		case "skipped":
			skipped = append(skipped, displayName)
		}
	}

	fmt.Println("## Example Status")
	fmt.Println()
	fmt.Println("### Working Examples ✅")
	printList(passed)
	fmt.Println()
	fmt.Println("### Failing Examples ❌")
	printList(failed)
	fmt.Println()
	fmt.Println("### Skipped Examples ⏭️")
	printList(skipped)
	fmt.Println()
	fmt.Printf("**Summary:** %d passed, %d failed, %d skipped (Total: %d)\n",
		len(passed), len(failed), len(skipped), len(passed)+len(failed)+len(skipped))

	if len(failed) > 0 {
		os.Exit(1)
	}
}

func printList(files []string) {
	if len(files) == 0 {
		fmt.Println("*None*")
		return
	}
	for _, f := range files {
		fmt.Printf("- `%s`\n", f)
	}
}
