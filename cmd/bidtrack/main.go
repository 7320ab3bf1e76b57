// Command bidtrack tracks construction bids from submission to close.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gritforge/bidtrack/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		// Rejected transitions (exit code 1) already printed structured
		// output via the formatter; everything else prints here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) || exitErr.Code != cli.ExitFailure {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
