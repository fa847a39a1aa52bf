// Package cli implements the boardfit command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoardFit/internal/config"
	"github.com/piwi3910/BoardFit/internal/logger"
)

// Exit codes.
const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitIncomplete = 2 // --strict and some parts were left over
)

// ErrIncomplete is returned by pack under --strict when parts are unplaced.
var ErrIncomplete = errors.New("not every part was placed")

// app holds the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg     *config.Config
	cleanup func()
}

// Execute runs the command tree and exits with the matching code.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()

	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, ErrIncomplete):
		os.Exit(ExitIncomplete)
	default:
		os.Exit(ExitError)
	}
}

// run executes one invocation with the given arguments and streams.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boardfit",
		Short: "BoardFit - guillotine cut planner for rectangular stock",
		Long: `BoardFit packs rectangular parts onto stock boards so that every part
can be cut with straight edge-to-edge saw cuts, leaving a kerf between
neighbours and as little waste as possible.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.boardfit/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text|json (overrides config)")

	cmd.AddCommand(
		packCmd(a),
		compareCmd(a),
		serveCmd(a),
		inventoryCmd(),
		versionCmd(),
	)
	return cmd
}

// setup loads the configuration and installs the logger before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	cleanup, err := logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.cleanup = cleanup
	return nil
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}
