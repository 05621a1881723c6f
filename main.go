package main

import (
	"os"

	"github.com/gopak/plugpak/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
