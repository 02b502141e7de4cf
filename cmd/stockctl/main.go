// Command stockctl prints stock reports as JSON.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"stockcard/internal/cli"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	configFile := flag.String("config", "", "config file (default: config.yaml search path)")

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cli.Commands(cli.DefaultEnv(configFile)) {
		commander.Register(c, "reports")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
