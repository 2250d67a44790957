package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"bro/internal/domain/entity"
)

// Render prints the result envelope for humans.
func Render(result entity.TaskResult, verbose bool) {
	switch result.Status {
	case entity.StatusSuccess:
		renderSuccess(result, verbose)
	case entity.StatusTimeout:
		yellow := color.New(color.FgYellow, color.Bold)
		yellow.Println("\n⏱ Task timed out")
		renderErrorBlock(result, "Task exceeded timeout")
	case entity.StatusFailed:
		red := color.New(color.FgRed, color.Bold)
		red.Println("\n✗ Task failed")
		renderErrorBlock(result, "Unknown error")
	default:
		red := color.New(color.FgRed, color.Bold)
		red.Println("\n✗ Error")
		renderErrorBlock(result, "Unknown error")
	}
}

func renderSuccess(result entity.TaskResult, verbose bool) {
	green := color.New(color.FgGreen, color.Bold)
	green.Println("\n✓ Task completed successfully!")

	text := "No result"
	if result.Result != nil {
		text = *result.Result
	}

	rule := strings.Repeat("─", 60)
	blue := color.New(color.FgBlue)
	blue.Println("\n" + rule)
	fmt.Println(text)
	blue.Println(rule)

	dim := color.New(color.Faint)
	if verbose {
		fmt.Println()
		dim.Printf("  Steps taken     %d\n", result.StepsTaken)
		dim.Printf("  Execution time  %.2fs\n", result.ExecutionTime)
		dim.Printf("  URLs visited    %d\n", len(result.URLsVisited))
	} else {
		dim.Printf("\n• Steps: %d | Time: %.2fs\n", result.StepsTaken, result.ExecutionTime)
	}

	if len(result.URLsVisited) > 0 {
		bold := color.New(color.Bold)
		bold.Println("\nURLs visited:")
		cyan := color.New(color.FgCyan)
		for _, url := range result.URLsVisited {
			cyan.Printf("  %s\n", url)
		}
	}
}

func renderErrorBlock(result entity.TaskResult, fallback string) {
	msg := fallback
	if result.ErrorMessage != nil {
		msg = *result.ErrorMessage
	}
	fmt.Printf("\n%s\n", msg)
}

// renderJSON writes the raw envelope for scripting; no decoration, so
// the output stays machine-parseable.
func renderJSON(w io.Writer, result entity.TaskResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func renderConfig(cfg Config) {
	bold := color.New(color.Bold)
	bold.Println("\nCurrent configuration:")

	source := "config"
	if envOverridden() {
		source = "env"
	}

	path, _ := configPath()
	fmt.Printf("  API URL    %s  (%s)\n", cfg.APIURL, source)
	fmt.Printf("  Timeout    %ds\n", cfg.Timeout)
	fmt.Printf("  Max steps  %d\n", cfg.MaxSteps)
	fmt.Printf("  File       %s\n", path)
}

func renderHelp(cfg Config) {
	bold := color.New(color.FgBlue, color.Bold)
	bold.Println("\nbro - browsing tasks from your terminal")

	fmt.Println(`
Usage:
  bro <task>                   Execute a browsing task
  bro --config                 Show current configuration
  bro --set-url <url>          Set API URL
  bro --set-timeout <seconds>  Set timeout
  bro --set-steps <number>     Set max steps
  bro --verbose <task>         Execute with verbose output
  bro --json <task>            Output result as JSON
  bro --help                   Show this help message

Examples:
  bro find top news on BBC
  bro search for latest AI news on HackerNews
  bro --verbose find top trending GitHub repos today`)

	fmt.Printf("\nConfiguration: %s (timeout %ds, max steps %d)\n", cfg.APIURL, cfg.Timeout, cfg.MaxSteps)
	dim := color.New(color.Faint)
	dim.Printf("Environment variable %s overrides the API URL\n", envAPIURL)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
