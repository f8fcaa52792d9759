// Command diskusage reports what takes up space in a directory tree.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/diskusage/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // Set by the linker
var version = "unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
