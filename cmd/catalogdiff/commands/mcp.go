package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/catalogdiff/internal/mcpserver"
)

// HandleMCP runs the MCP server over stdio until the client disconnects or
// the process is interrupted.
func HandleMCP(args []string) error {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help" || args[0] == "help") {
		Writef(Stderr, "Usage: catalogdiff mcp\n\n")
		Writef(Stderr, "Start an MCP (Model Context Protocol) server on stdio exposing the diff\n")
		Writef(Stderr, "and classify_entity tools. Configure defaults with CATALOGDIFF_* environment variables.\n")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
