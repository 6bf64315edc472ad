// Package config resolves calir driver options from CLI flags first, then
// CALIR_*-prefixed environment variables, the way cmd/sentra favors an
// explicit flag over its SENTRA_DEV_PATH/SENTRA_INSTALL_DIR env fallbacks.
package config

import (
	"os"
	"strings"

	"calir/internal/layout"

	"github.com/pkg/errors"
)

// Config holds the options every cmd/calir subcommand reads.
type Config struct {
	// IncludePath is a colon-separated search path for .cal includes.
	// The library itself has no include directive; this is plumbed
	// through for parity with the reference driver's module search path
	// and is currently unused by internal/parser.
	IncludePath []string

	// DataLayout selects the target Layout: "host" (default), "ilp32",
	// or "lp64".
	DataLayout string

	// Verbose enables %+v stack-trace printing for internal errors.
	Verbose bool

	// JSON switches the driver's own diagnostic logging to slog's JSON
	// handler instead of its default text handler.
	JSON bool
}

// Default returns the zero-value-safe baseline Config before flags or
// environment variables are applied.
func Default() Config {
	return Config{DataLayout: "host"}
}

// Load builds a Config from args (a subcommand's remaining os.Args, not
// including the subcommand word itself) layered over CALIR_*
// environment variables, flags taking precedence. It returns the
// positional (non-flag) arguments alongside the Config.
func Load(args []string) (Config, []string, error) {
	cfg := Default()

	if v := os.Getenv("CALIR_INCLUDE_PATH"); v != "" {
		cfg.IncludePath = strings.Split(v, ":")
	}
	if v := os.Getenv("CALIR_DATA_LAYOUT"); v != "" {
		cfg.DataLayout = v
	}
	if v := os.Getenv("CALIR_VERBOSE"); v != "" {
		cfg.Verbose = true
	}
	if v := os.Getenv("CALIR_JSON"); v != "" {
		cfg.JSON = true
	}

	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--verbose" || arg == "-v":
			cfg.Verbose = true
		case arg == "--json":
			cfg.JSON = true
		case arg == "--include" || arg == "-I":
			if i+1 >= len(args) {
				return cfg, nil, errors.Errorf("%s requires a path argument", arg)
			}
			i++
			cfg.IncludePath = append(cfg.IncludePath, strings.Split(args[i], ":")...)
		case strings.HasPrefix(arg, "--include="):
			cfg.IncludePath = append(cfg.IncludePath, strings.Split(strings.TrimPrefix(arg, "--include="), ":")...)
		case arg == "--layout":
			if i+1 >= len(args) {
				return cfg, nil, errors.Errorf("--layout requires a value (host, ilp32, lp64)")
			}
			i++
			cfg.DataLayout = args[i]
		case strings.HasPrefix(arg, "--layout="):
			cfg.DataLayout = strings.TrimPrefix(arg, "--layout=")
		default:
			positional = append(positional, arg)
		}
	}

	switch cfg.DataLayout {
	case "host", "ilp32", "lp64":
	default:
		return cfg, nil, errors.Errorf("unknown data layout %q: want host, ilp32, or lp64", cfg.DataLayout)
	}

	return cfg, positional, nil
}

// Layout resolves the configured data-layout name to a *layout.Layout.
func (c Config) Layout() *layout.Layout {
	switch c.DataLayout {
	case "ilp32":
		return layout.ILP32()
	case "lp64":
		return layout.LP64()
	default:
		return layout.Host()
	}
}
