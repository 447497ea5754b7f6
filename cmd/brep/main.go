// Command brep builds boundary representation models from Lisp scripts.
package main

import (
	"fmt"
	"os"

	"github.com/chazu/brep/pkg/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
