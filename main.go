package main

import (
	"os"

	"github.com/PRUTHVI-VANKA/Weather-Now/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
