package main

import (
	"os"

	"github.com/jacksonzartman-zman/ZARTMAN.io-sub012/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
