package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
)

var version = "dev"

func main() {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("jobs-cli"),
		kong.Description("Fetch the public job listing from the CRM."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	runCtx := &Context{
		Out:    os.Stdout,
		Logger: logger,
	}
	if err := kctx.Run(runCtx); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
