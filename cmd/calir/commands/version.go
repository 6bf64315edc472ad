// cmd/calir/commands/version.go
package commands

import "fmt"

// Version and BuildDate are overridable at build time via -ldflags, the
// same mechanism the reference driver uses for its own VERSION/BuildDate
// pair.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

// VersionCommand prints the build version and date.
func VersionCommand([]string) error {
	fmt.Printf("calir %s (built %s)\n", Version, BuildDate)
	return nil
}
