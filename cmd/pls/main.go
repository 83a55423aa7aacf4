// Command pls is the pls language CLI: run, compile, interpret, fmt, parse.
package main

import (
	"os"

	"github.com/pls-lang/pls/cmd/pls/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
