package main

import (
	"os"
	_ "time/tzdata"

	"github.com/aquatix/whosthere/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
