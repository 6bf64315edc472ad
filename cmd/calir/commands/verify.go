// cmd/calir/commands/verify.go
package commands

import (
	"fmt"
	"os"

	"calir/internal/config"
	"calir/internal/ir"
	"calir/internal/parser"
	"calir/internal/verifier"
)

// VerifyCommand parses the given file and prints every verifier
// diagnostic it produces, exiting 0 if the module is well formed and 1
// otherwise.
func VerifyCommand(args []string) error {
	_, positional, err := config.Load(args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("usage: calir verify FILE")
	}
	filename := positional[0]

	ctx := ir.NewContext()
	m, err := parser.ParseFile(ctx, filename)
	if err != nil {
		return reportDiagnostic(err)
	}

	ok, diags := verifier.Verify(m)
	for _, d := range diags {
		fmt.Fprintln(os.Stdout, d.String())
	}
	if !ok {
		os.Exit(1)
	}
	return nil
}
