// Package main provides the criteria command line tool.
package main

import (
	"os"

	"github.com/pay-theory/criteria/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
