package clicommand

import "github.com/urfave/cli"

var FlowgenCommands = []cli.Command{
	BuildCommand,
	ListCommand,
	{
		Name:  "hook",
		Usage: "Inspect the lifecycle hooks of generated processes",
		Subcommands: []cli.Command{
			HookRenderCommand,
		},
	},
}
