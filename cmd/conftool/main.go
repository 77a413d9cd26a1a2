// Command conftool keeps a KEY = value configuration file consistent with a
// catalog of interdependent options.
//
// Usage:
//
//	conftool [-s SPEC] [-c CONFIG] [-v...] [--no-color] <command>
//
// Run "conftool --help" for the list of commands.
package main

import (
	"os"

	"github.com/vengaer/conftool/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
