package main

import (
	"os"

	"github.com/jasonmoo/scssexpand/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
