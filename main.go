package main

import (
	"os"

	"github.com/acf-tools/startrack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
