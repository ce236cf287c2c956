package main

import (
	"os"

	"github.com/9wick/enbu/cmd/enbu/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
