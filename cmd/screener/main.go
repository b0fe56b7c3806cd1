// Package main is the entry point for the screener CLI tool.
package main

import (
	"os"

	"github.com/stockscreen/screener/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
