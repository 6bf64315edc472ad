// cmd/calir/main.go
package main

import (
	"fmt"
	"log/slog"
	"os"

	"calir/cmd/calir/commands"
)

// commandAliases mirrors the reference driver's single-letter alias table.
var commandAliases = map[string]string{
	"r": "run",
	"c": "verify",
	"f": "fmt",
	"d": "dump",
	"v": "version",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	var err error
	switch cmd {
	case "run":
		err = commands.RunCommand(args[1:])
	case "verify":
		err = commands.VerifyCommand(args[1:])
	case "fmt":
		err = commands.FmtCommand(args[1:])
	case "dump":
		err = commands.DumpCommand(args[1:])
	case "version", "--version", "-version":
		err = commands.VersionCommand(args[1:])
	case "help", "--help", "-h":
		showUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		showUsage()
		os.Exit(1)
	}

	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Fprintln(os.Stderr, `calir — Calir SSA IR driver

Usage:
  calir run FILE      (r) parse, verify, interpret @main
  calir verify FILE   (c) parse, verify, print diagnostics
  calir fmt FILE      (f) parse, print canonical text
  calir dump FILE     (d) parse, print a structural dump
  calir version       (v) print build version/date

Flags (any subcommand taking FILE):
  --layout host|ilp32|lp64   select the data layout
  --include PATH             add a colon-separated include search path
  --verbose                  print stack traces for internal errors
  --json                     log the driver's own diagnostics as JSON`)
}
