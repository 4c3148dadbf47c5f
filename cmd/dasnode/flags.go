package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Commonly used command line flags.
var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML configuration file",
		Value: "dasnode.toml",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "loglevel",
		Usage: "log verbosity (trace|debug|info|warn|error|crit)",
		Value: "info",
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "directory for the header store database",
	}
	backendFlag = &cli.StringFlag{
		Name:  "store",
		Usage: "header store backend (memory|leveldb)",
	}
	fromFlag = &cli.Uint64Flag{
		Name:  "from",
		Usage: "lower bound height (inclusive)",
	}
	toFlag = &cli.Uint64Flag{
		Name:  "to",
		Usage: "upper bound height (inclusive)",
	}
)

// fatalf reports a fatal CLI-level error and exits.
func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
