package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix = "CONFTOOL"

	// defaultSettingsPath is named exactly; a name-based search would also
	// match the default catalog .conftool.json.
	defaultSettingsPath = ".conftool.yaml"
)

// loadSettings layers CONFTOOL_* environment variables and an optional
// YAML settings file under the bound command-line flags.
//
// An explicit --settings file must exist; the default .conftool.yaml in
// the working directory is optional.
func loadSettings(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(keySettings); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read settings %s: %w", path, err)
		}
		return nil
	}

	if _, err := os.Stat(defaultSettingsPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}
	v.SetConfigFile(defaultSettingsPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read settings %s: %w", defaultSettingsPath, err)
	}
	return nil
}

// newLogger returns a text logger on w. Verbosity 0 shows warnings,
// 1 adds info and 2 or more adds debug output.
func newLogger(w io.Writer, verbosity int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
