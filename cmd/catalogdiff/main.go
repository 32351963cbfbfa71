package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/erraggy/catalogdiff"
	"github.com/erraggy/catalogdiff/cmd/catalogdiff/commands"
)

// commandNames lists every command and alias accepted by main.
var commandNames = []string{"diff", "bump", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	var err error

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("catalogdiff %s\n", catalogdiff.Version())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "diff":
		err = commands.HandleDiff(os.Args[2:])
	case "bump":
		err = commands.HandleBump(os.Args[2:])
	case "mcp":
		err = commands.HandleMCP(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, commands.ErrBreakingChanges) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// suggestCommand returns the closest known command within an edit distance
// of 2, or "".
func suggestCommand(input string) string {
	best, bestDistance := "", 3
	for _, name := range commandNames {
		if d := fuzzy.LevenshteinDistance(input, name); d < bestDistance {
			best, bestDistance = name, d
		}
	}
	return best
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `catalogdiff - compare design-token and component-schema catalogs

Usage:
  catalogdiff <command> [flags] [arguments]

Commands:
  diff      Classify the changes between two catalog snapshots
  bump      Print the semantic version increment the changes need
  mcp       Start an MCP server on stdio
  version   Print the version
  help      Show this help

Run 'catalogdiff <command> --help' for command flags.
`)
}
