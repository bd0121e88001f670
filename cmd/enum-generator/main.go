// Package main provides the CLI entrypoint for enum-generator.
//
// enum-generator turns tagged-union specs into Go code:
//   - Reads specs from a YAML/JSON schema or from annotated Go structs
//   - Resolves the integer representation and every variant discriminant
//   - Generates one file per union with conversions and optional JSON hooks
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CLI is the command tree.
type CLI struct {
	LogLevel string `help:"Log level (trace, debug, info, warn, error)." default:"warn" env:"ENUMGEN_LOG_LEVEL"`
	NoColor  bool   `help:"Disable colored output."`

	Gen     GenCmd     `cmd:"" help:"Generate union files."`
	Check   CheckCmd   `cmd:"" help:"Generate in memory and fail on errors or stale files."`
	Resolve ResolveCmd `cmd:"" help:"Print the resolved plan."`
	Schema  SchemaCmd  `cmd:"" help:"Convert annotated Go specs into a schema file."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// App carries what every command needs at run time.
type App struct {
	ctx    context.Context
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
	color  bool
}

func newApp(ctx context.Context, cli *CLI, stdout, stderr io.Writer, color bool) (*App, error) {
	level, err := zerolog.ParseLevel(cli.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr, NoColor: !color}).Level(level)

	return &App{
		ctx:    ctx,
		logger: log.Logger,
		stdout: stdout,
		stderr: stderr,
		color:  color,
	}, nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("enum-generator"),
		kong.Description("Generate Go tagged unions with resolved discriminants."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cli, os.Stdout, os.Stderr, !cli.NoColor && isTerminal(os.Stderr))
	kctx.FatalIfErrorf(err)

	err = kctx.Run(app)
	kctx.FatalIfErrorf(err)
}
