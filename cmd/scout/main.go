// Command scout is the terminal front-end of go_scout: keyword discovery,
// single-channel lookups and the local creator roster.
package main

import (
	"os"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	rootCmd.Version = version
	if err := Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
