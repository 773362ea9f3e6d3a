package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err unless the run subcommand already wrote the runner
// message.
func reportError(w io.Writer, err error) {
	if err == nil || errors.Is(err, errRunFailed) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}
