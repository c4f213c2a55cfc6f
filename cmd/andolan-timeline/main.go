// Package main is the entry point for the andolan-timeline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/bobmcallan/andolan/internal/cli"
	"github.com/bobmcallan/andolan/internal/common"
)

func main() {
	if err := cli.Execute(common.GetFullVersion()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
