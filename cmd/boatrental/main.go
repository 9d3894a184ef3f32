package main

import (
	"os"

	"github.com/Josh-Grafman/boatrental/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
