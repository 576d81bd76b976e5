package main

import (
	"os"

	"github.com/tastectl/cli/cmd"
	"github.com/tastectl/cli/internal/format"
)

func main() {
	if err := cmd.Execute(); err != nil {
		format.PrintError("%v", err)
		os.Exit(1)
	}
}
