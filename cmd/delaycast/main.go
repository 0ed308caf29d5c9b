// main is the entry point for the delaycast CLI.
package main

import (
	"fmt"
	"os"

	"github.com/delaycast/delaycast/cmd"
	"github.com/delaycast/delaycast/internal/contract"
	"github.com/delaycast/delaycast/internal/runstore"
)

func main() {
	err := cmd.Execute()

	// Flush everything before deciding the exit code.
	runstore.CloseStore()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Cannot stop profiling", perr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
