// Package main provides the CLI entrypoint for attrmap.
//
// attrmap loads attribute map definitions and record models, then:
//   - checks that every map declares and resolves cleanly
//   - prints the read or write schema of a map
//   - projects records through a map
//   - translates external input to internal attribute names
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
