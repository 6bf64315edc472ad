// cmd/calir/commands/run.go
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"calir/internal/calirerrors"
	"calir/internal/config"
	"calir/internal/interp"
	"calir/internal/ir"
	"calir/internal/parser"
	"calir/internal/verifier"
)

// ExitError is the sentinel calir_exit returns: it unwinds back out of
// Interpreter.Call like any other runtime error, but RunCommand
// recognizes it and turns it into a process exit rather than reporting
// it as an interpretation failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("calir_exit(%d)", e.Code) }

// RunCommand parses, verifies, and interprets @main from the given file,
// printing its result and translating a returned integer into the
// process exit code (0 for void, the low byte of the integer otherwise),
// matching the reference driver's run command's plain success/failure
// reporting.
func RunCommand(args []string) error {
	cfg, positional, err := config.Load(args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("usage: calir run FILE")
	}
	filename := positional[0]

	ctx := ir.NewContext()
	m, err := parser.ParseFile(ctx, filename)
	if err != nil {
		return reportDiagnostic(err)
	}

	if ok, diags := verifier.Verify(m); !ok {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return fmt.Errorf("%s failed verification", filename)
	}

	fn := m.FindFunction("main")
	if fn == nil {
		return fmt.Errorf("%s defines no @main function", filename)
	}
	if fn.IsDeclaration() {
		return fmt.Errorf("@main in %s has no definition", filename)
	}

	setupLogger(cfg)

	it := interp.New(cfg.Layout())
	registerBuiltinFFI(it, os.Stdout)
	if err := it.LoadModule(m); err != nil {
		return err
	}

	callArgs := make([]interp.Value, len(fn.Params))
	result, err := it.Call(fn, callArgs)
	if err != nil {
		var exit *ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		if cfg.Verbose {
			slog.Error("interpretation failed", "file", filename, "error", fmt.Sprintf("%+v", err))
		}
		return err
	}

	switch result.Kind {
	case interp.KindI32, interp.KindI64, interp.KindI16, interp.KindI8, interp.KindI1:
		fmt.Println(int64(result.Int))
		if code := int(result.Int & 0xff); code != 0 {
			os.Exit(code)
		}
	case interp.KindF32, interp.KindF64:
		fmt.Println(result.Float)
	default:
	}
	return nil
}

// registerBuiltinFFI installs the small set of host callbacks every
// interpreted module gets for free: calir_print writes its argument to w
// (the driver's output writer, not the structured logger) and calir_exit
// unwinds an ExitError carrying the requested status rather than
// terminating the process from inside interpreted code.
func registerBuiltinFFI(it *interp.Interpreter, w io.Writer) {
	it.RegisterFFI("calir_print", func(args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			fmt.Fprintln(w)
			return interp.Value{}, nil
		}
		if args[0].Kind == interp.KindF32 || args[0].Kind == interp.KindF64 {
			fmt.Fprintln(w, args[0].Float)
		} else {
			fmt.Fprintln(w, int64(args[0].Int))
		}
		return interp.Value{}, nil
	})
	it.RegisterFFI("calir_exit", func(args []interp.Value) (interp.Value, error) {
		code := 0
		if len(args) > 0 {
			code = int(args[0].Int)
		}
		return interp.Value{}, &ExitError{Code: code}
	})
}

// setupLogger installs a JSON slog handler when cfg.JSON is set, text
// otherwise — the driver's own diagnostics only, never a .cal program's
// calir_print output.
func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{}
	if cfg.Verbose {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func reportDiagnostic(err error) error {
	if ce, ok := err.(*calirerrors.Error); ok {
		return fmt.Errorf("%s", ce.Error())
	}
	return err
}
