// Package mcp parses the ynab-mcp command line and runs the selected
// subcommand: serving the MCP server, storing a token, or checking token
// resolution.
package mcp

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"

	"github.com/louisbranch/ynab-mcp/internal/platform/config"
	"github.com/louisbranch/ynab-mcp/internal/platform/logging"
	"github.com/louisbranch/ynab-mcp/internal/platform/otel"
	"github.com/louisbranch/ynab-mcp/internal/platform/timeouts"
	"github.com/louisbranch/ynab-mcp/internal/services/mcp/service"
	"github.com/louisbranch/ynab-mcp/internal/ynab"
)

// Config holds the command configuration.
type Config struct {
	Token     string `env:"YNAB_API_TOKEN"`
	APIURL    string `env:"YNAB_MCP_API_URL"`
	LogLevel  string `env:"YNAB_MCP_LOG_LEVEL"  envDefault:"info"`
	LogPretty bool   `env:"YNAB_MCP_LOG_PRETTY" envDefault:"false"`

	// Command is the subcommand to execute: run, store-token, or
	// check-token. Defaults to run.
	Command string
}

// ParseConfig loads a .env file when present, then parses environment and
// flags into a Config. The first positional argument selects the
// subcommand.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Token, "token", cfg.Token, "YNAB API token (overrides environment and keyring)")
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "override the YNAB API base URL")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.LogPretty, "log-pretty", cfg.LogPretty, "human-readable log output")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Command = fs.Arg(0)
	if cfg.Command == "" {
		cfg.Command = "run"
	}
	return cfg, nil
}

// Run executes the selected subcommand. The in and out streams are used by
// the interactive token subcommands.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	switch cfg.Command {
	case "run":
		return serve(ctx, cfg)
	case "store-token":
		return storeToken(in, out)
	case "check-token":
		return checkToken(out, cfg.Token)
	default:
		return fmt.Errorf("unknown command %q: expected run, store-token, or check-token", cfg.Command)
	}
}

func serve(ctx context.Context, cfg Config) error {
	log := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	shutdown, err := otel.Setup(ctx, "ynab-mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	token, err := ynab.ResolveToken(cfg.Token)
	if err != nil {
		return err
	}

	var opts []ynab.Option
	if cfg.APIURL != "" {
		opts = append(opts, ynab.WithBaseURL(cfg.APIURL))
	}
	client := ynab.New(token, log, opts...)
	server := service.New(client, log)
	defer server.Close()

	return server.Run(ctx)
}

func storeToken(in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Enter your YNAB Personal Access Token:")
	fmt.Fprintln(out, "(Get one at https://app.ynab.com/settings/developer)")

	scanner := bufio.NewScanner(in)
	var token string
	if scanner.Scan() {
		token = strings.TrimSpace(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		fmt.Fprintln(out, "✗ No token provided.")
		return nil
	}

	if err := ynab.StoreToken(token); err != nil {
		fmt.Fprintf(out, "✗ Failed to store token: %v. Set %s instead.\n", err, ynab.EnvToken)
		return nil
	}
	fmt.Fprintln(out, "✓ Token stored securely in OS keyring.")
	return nil
}

// checkToken reports whether a token resolves, without ever printing the
// full value.
func checkToken(out io.Writer, override string) error {
	token, err := ynab.ResolveToken(override)
	if err != nil {
		fmt.Fprintf(out, "✗ %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "✓ Token found (%d characters)\n", len(token))
	fmt.Fprintf(out, "  Masked: %s\n", ynab.MaskToken(token))
	return nil
}
