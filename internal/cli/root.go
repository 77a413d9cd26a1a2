// Package cli implements the conftool command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vengaer/conftool"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

const (
	defaultSpecPath = ".conftool.json"
	maxVerbosity    = 3
)

// Settings keys shared by flags, environment and the settings file.
const (
	keySpec     = "spec"
	keyConfig   = "config"
	keyVerbose  = "verbose"
	keyNoColor  = "no-color"
	keySettings = "settings"
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func failure(err error) error {
	return &ExitError{Code: ExitFailure, Err: err}
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

// app is the state shared by all commands of one invocation.
type app struct {
	settings *viper.Viper
	stdout   io.Writer
	stderr   io.Writer
	logger   *slog.Logger
	colors   *palette
}

// Run executes the command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}

	if noColor, _ := root.PersistentFlags().GetBool(keyNoColor); noColor {
		a.colors = newPalette(true)
	}
	a.colors.err.Fprint(stderr, "error: ")
	fmt.Fprintln(stderr, err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code == ExitUsage {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
		}
		return exitErr.Code
	}

	// Anything cobra rejects before a command runs is a usage problem.
	fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
	return ExitUsage
}

// NewRootCmd creates the conftool command tree writing to the given streams.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return newApp(stdout, stderr).rootCmd()
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		settings: viper.New(),
		stdout:   stdout,
		stderr:   stderr,
		logger:   slog.New(slog.DiscardHandler),
		colors:   newPalette(false),
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "conftool",
		Short: "Manage option dependencies in a KEY = value configuration file",
		Long: `conftool keeps a flat configuration file consistent with a catalog of
options that depend on one another.

Enabling an option enables everything it depends on; disabling a switch
disables everything that depends on it. The catalog may be written in JSON,
YAML, Starlark or HCL.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})

	flags := root.PersistentFlags()
	flags.StringP(keySpec, "s", defaultSpecPath, "Option catalog (.json, .yaml, .star, .hcl)")
	flags.StringP(keyConfig, "c", conftool.DefaultConfigPath, "Configuration file to operate on")
	flags.CountP(keyVerbose, "v", "Increase verbosity (may be repeated)")
	flags.Bool(keyNoColor, false, "Disable colored output")
	flags.String(keySettings, "", "Settings file (default .conftool.yaml if present)")
	for _, key := range []string{keySpec, keyConfig, keyVerbose, keyNoColor, keySettings} {
		_ = a.settings.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		a.newListCmd(),
		a.newValidateCmd(),
		a.newEnableCmd(),
		a.newDisableCmd(),
		a.newSetCmd(),
		a.newGenerateCmd(),
		a.newGraphCmd(),
	)
	return root
}

// setup resolves settings and configures logging and colors.
func (a *app) setup() error {
	if err := loadSettings(a.settings); err != nil {
		return failure(err)
	}

	if a.settings.GetBool(keyNoColor) {
		a.colors = newPalette(true)
	}

	verbosity := a.settings.GetInt(keyVerbose)
	clamped := verbosity > maxVerbosity
	if clamped {
		verbosity = maxVerbosity
	}
	a.logger = newLogger(a.stderr, verbosity)
	if clamped {
		a.logger.Warn("verbosity clamped", "max", maxVerbosity)
	}

	if path := a.settings.ConfigFileUsed(); path != "" {
		a.logger.Debug("loaded settings", "path", path)
	}
	return nil
}

// open loads the catalog named by the settings.
func (a *app) open(dryRun bool) (*conftool.Tool, error) {
	spec := a.settings.GetString(keySpec)
	tool, err := conftool.Open(spec,
		conftool.WithConfigPath(a.settings.GetString(keyConfig)),
		conftool.WithLogger(a.logger),
		conftool.WithDryRun(dryRun),
	)
	if err != nil {
		return nil, failure(err)
	}
	return tool, nil
}
