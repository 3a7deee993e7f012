// Command contentsync pulls, pushes and watches the portal content document
// from a terminal, with the same conflict checks as the admin dashboard.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(GetExitCode(err))
	}
}
