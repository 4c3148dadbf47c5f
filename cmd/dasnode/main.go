package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Git SHA1 commit hash of the release (set via linker flags)
var gitCommit = ""
var gitDate = ""

var app *cli.App

func init() {
	app = cli.NewApp()
	app.Name = "dasnode"
	app.Usage = "a data availability light node"
	app.Version = fmt.Sprintf("%s-%s", gitCommit, gitDate)
	app.Flags = []cli.Flag{
		configFlag,
		logLevelFlag,
	}
	app.Commands = []*cli.Command{
		commandStart,
		commandInspect,
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
