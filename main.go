package main

import (
	"os"

	"github.com/rtzll/chanscribe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
