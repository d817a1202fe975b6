package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	mcpcmd "github.com/louisbranch/ynab-mcp/internal/cmd/mcp"
	"github.com/louisbranch/ynab-mcp/internal/platform/config"
)

// main runs the YNAB MCP server or one of its token subcommands.
func main() {
	cfg, err := mcpcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpcmd.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		config.Exitf("ynab-mcp: %v", err)
	}
}
