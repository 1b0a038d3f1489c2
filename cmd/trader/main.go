package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/internal/version"
)

func projectCommand(kind session.Kind, usage string) *cli.Command {
	run := func(step bool) cli.ActionFunc {
		return func(ctx context.Context, _ *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			return a.runProject(ctx, kind, step)
		}
	}

	return &cli.Command{
		Name:  string(kind),
		Usage: usage,
		Commands: []*cli.Command{
			{
				Name:   "auto",
				Usage:  "Run the agent once on the strategy described in the project file",
				Action: run(false),
			},
			{
				Name:   "step",
				Usage:  "Read commands one line at a time and run the agent on each",
				Action: run(true),
			},
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "trader",
		Usage:   "Drive trading frameworks with a language model agent",
		Version: version.Version,
		Commands: []*cli.Command{
			projectCommand(session.KindFreqtrade, "Crypto futures with freqtrade"),
			projectCommand(session.KindVnpy, "Domestic futures on the built-in bar backtester"),
			{
				Name:      "data",
				Usage:     "Fetch futures market data described in plain words",
				ArgsUsage: "<request...>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					request := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
					if request == "" {
						return cli.Exit("data needs a request, eg: trader data rb2310 5 minute bars", 2)
					}

					a, err := newApp()
					if err != nil {
						return err
					}
					defer a.close()

					return a.runData(ctx, request)
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cmd.Run(ctx, os.Args)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
