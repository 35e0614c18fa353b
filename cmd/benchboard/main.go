// cmd/benchboard/main.go
package main

import (
	"os"

	cmd "github.com/mwiater/benchboard/internal/cli"
	"github.com/mwiater/benchboard/internal/logging"
)

var (
	executeCmd   = cmd.Execute
	closeLogging = logging.Close
	exit         = os.Exit
)

// main runs the benchboard CLI. Logging is closed before a failing command
// exits with status 1.
func main() {
	err := executeCmd()
	_ = closeLogging()
	if err != nil {
		exit(1)
	}
}
