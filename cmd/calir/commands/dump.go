// cmd/calir/commands/dump.go
package commands

import (
	"fmt"
	"strings"

	"calir/internal/config"
	"calir/internal/ir"
	"calir/internal/parser"
)

// DumpCommand parses the given file and prints a structural summary: every
// named struct type, every function's signature, and each function's block
// graph (block name plus its successor names) — a coarser view than fmt's
// canonical text, meant for eyeballing control flow.
func DumpCommand(args []string) error {
	_, positional, err := config.Load(args)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("usage: calir dump FILE")
	}

	ctx := ir.NewContext()
	m, err := parser.ParseFile(ctx, positional[0])
	if err != nil {
		return reportDiagnostic(err)
	}

	fmt.Printf("module %q\n", m.Name)

	structs := m.StructDefs()
	if len(structs) > 0 {
		fmt.Println("types:")
		for _, st := range structs {
			members := st.Members()
			parts := make([]string, len(members))
			for i, m := range members {
				parts[i] = m.String()
			}
			fmt.Printf("  %%%s = { %s }\n", st.Name(), strings.Join(parts, ", "))
		}
	}

	fmt.Println("globals:")
	for _, g := range m.Globals() {
		fmt.Printf("  @%s : %s\n", g.Name, g.ValueType.String())
	}

	fmt.Println("functions:")
	for _, fn := range m.Functions() {
		fmt.Printf("  @%s%s\n", fn.Name, fn.Signature().String())
		if fn.IsDeclaration() {
			fmt.Println("    (declaration)")
			continue
		}
		for _, b := range fn.Blocks() {
			succs := b.Successors()
			names := make([]string, len(succs))
			for i, s := range succs {
				names[i] = s.Name
			}
			fmt.Printf("    %s -> %v\n", b.Name, names)
		}
	}
	return nil
}
