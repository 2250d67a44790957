package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"bro/internal/domain/entity"
)

// Run is the CLI entry point. Flags may appear anywhere around the
// free-text task words, so arguments are scanned rather than parsed
// with the flag package.
func Run(args []string) int {
	cfg := LoadConfig()

	if len(args) == 0 || hasFlag(args, "--help") || hasFlag(args, "-h") {
		renderHelp(cfg)
		return 0
	}

	if hasFlag(args, "--config") {
		renderConfig(cfg)
		return 0
	}

	if code, handled := handleSetFlags(args, cfg); handled {
		return code
	}

	verbose := hasFlag(args, "--verbose") || hasFlag(args, "-v")
	jsonOutput := hasFlag(args, "--json")
	args = stripFlags(args, "--verbose", "-v", "--json")

	task := strings.TrimSpace(strings.Join(args, " "))
	if task == "" {
		color.New(color.FgRed).Println("Please provide a task")
		fmt.Println("Use 'bro --help' for usage information")
		return 1
	}

	client := NewClient(cfg)
	result := client.RunTask(task, cfg)

	if jsonOutput {
		if err := renderJSON(os.Stdout, result); err != nil {
			color.New(color.FgRed).Printf("Failed to encode result: %v\n", err)
			return 1
		}
	} else {
		blue := color.New(color.FgBlue, color.Bold)
		blue.Printf("\nTask: %s\n", truncate(task, 120))
		Render(result, verbose)
	}

	if result.Status != entity.StatusSuccess {
		return 1
	}
	return 0
}

// handleSetFlags applies --set-url / --set-timeout / --set-steps. Each
// persists the config and exits.
func handleSetFlags(args []string, cfg Config) (int, bool) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	if val, ok, missing := flagValue(args, "--set-url"); ok {
		if missing {
			red.Println("Please provide a URL after --set-url")
			return 1, true
		}
		cfg.APIURL = val
		if err := cfg.Save(); err != nil {
			red.Printf("Failed to save config: %v\n", err)
			return 1, true
		}
		green.Printf("API URL set to: %s\n", cfg.APIURL)
		return 0, true
	}

	if val, ok, missing := flagValue(args, "--set-timeout"); ok {
		if missing {
			red.Println("Please provide a timeout value")
			return 1, true
		}
		seconds, err := strconv.Atoi(val)
		if err != nil || seconds <= 0 {
			red.Println("Timeout must be a positive number")
			return 1, true
		}
		cfg.Timeout = seconds
		if err := cfg.Save(); err != nil {
			red.Printf("Failed to save config: %v\n", err)
			return 1, true
		}
		green.Printf("Timeout set to: %ds\n", cfg.Timeout)
		return 0, true
	}

	if val, ok, missing := flagValue(args, "--set-steps"); ok {
		if missing {
			red.Println("Please provide a max steps value")
			return 1, true
		}
		steps, err := strconv.Atoi(val)
		if err != nil || steps <= 0 {
			red.Println("Max steps must be a positive number")
			return 1, true
		}
		cfg.MaxSteps = steps
		if err := cfg.Save(); err != nil {
			red.Printf("Failed to save config: %v\n", err)
			return 1, true
		}
		green.Printf("Max steps set to: %d\n", cfg.MaxSteps)
		return 0, true
	}

	return 0, false
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func stripFlags(args []string, flags ...string) []string {
	kept := make([]string, 0, len(args))
	for _, a := range args {
		if hasFlag(flags, a) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// flagValue returns the argument following flag. missing is true when
// the flag is present but has no value after it.
func flagValue(args []string, flag string) (value string, ok bool, missing bool) {
	for i, a := range args {
		if a != flag {
			continue
		}
		if i+1 >= len(args) {
			return "", true, true
		}
		return args[i+1], true, false
	}
	return "", false, false
}
