package main

import (
	"os"

	"toolup/internal/cli"
	"toolup/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		ui.ErrorMsg("%v", err)
		os.Exit(1)
	}
}
