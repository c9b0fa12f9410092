// Command oneil is a thin reference driver over the model toolchain:
// lex/parse/resolve/eval subcommands, each a direct pass-through to
// the corresponding internal package. It contains no model-evaluation
// logic of its own.
package main

import (
	"fmt"
	"os"

	"github.com/careweather/oneil/cmd/oneil/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
