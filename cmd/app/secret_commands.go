package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/datavault/cmd/app/commands"
)

func getSecretCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-app-secret",
			Usage: "Generate a new application secret for envelope encryption",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateAppSecret(commands.DefaultIO().Writer)
			},
		},
	}
}
