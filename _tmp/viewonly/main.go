// Command viewonly opens the editor view without a controller: runs stay in
// the Running state and nothing is persisted. Used to check layout by eye.
package main

import (
	"context"
	"fmt"
	"os"

	"coderunner/internal/catalog"
	"coderunner/internal/session"
	"coderunner/internal/state"
	"coderunner/internal/ui"
)

func main() {
	sess, err := session.New(context.Background(), catalog.Default(), state.NewMemory())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	v := ui.New(sess, ui.Options{Debug: true})
	_ = v.Run()
}
