package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/soaklab/leakrun/internal/cli"
	"github.com/soaklab/leakrun/internal/engine"
)

func main() {
	if err := cli.Execute(); err != nil {
		// A nonzero engine exit is the test's own pass/fail signal;
		// propagate it as the launcher's exit status.
		var exitErr *engine.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr)
			os.Exit(exitErr.Code)
		}
		log.Fatal(err)
	}
}
