// cmd/calir/commands/fmt.go
package commands

import (
	"fmt"

	"calir/internal/config"
	"calir/internal/ir"
	"calir/internal/parser"
	"calir/internal/printer"
)

// FmtCommand parses the given file and prints its canonical text form to
// stdout, the round-trip property spec.md §8's S1 exercises from the
// library side.
func FmtCommand(args []string) error {
	_, positional, err := config.Load(args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("usage: calir fmt FILE")
	}

	ctx := ir.NewContext()
	m, err := parser.ParseFile(ctx, positional[0])
	if err != nil {
		return reportDiagnostic(err)
	}

	fmt.Print(printer.Sprint(m))
	return nil
}
