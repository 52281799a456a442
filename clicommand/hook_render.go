package clicommand

import (
	"fmt"

	"github.com/urfave/cli"
)

const hookRenderHelpDescription = `Usage:

    flowgen hook render --pid <pid> --template <name> [options]

Description:

Renders the beforeScript and afterScript hook strings for a single
process without generating a pipeline. Useful for inspecting exactly
what a process will run for a given set of platform parameters.

The variant line reports whether the hooks announce the process to the
platform ("reporting") or only prepare the environment ("plain").

Example:

    $ flowgen hook render --pid 1 --template fastqc --platform-http https://platform.example.com`

var HookRenderCommand = cli.Command{
	Name:        "render",
	Usage:       "Render the lifecycle hooks for a single process",
	Description: hookRenderHelpDescription,
	Flags: append(append(globalFlags(), paramFlags()...),
		cli.StringFlag{
			Name:   "pid",
			Usage:  "Process identifier used inside the hook strings",
			EnvVar: "FLOWGEN_PID",
		},
		cli.StringFlag{
			Name:   "template",
			Usage:  "Process template name used inside the hook strings",
			EnvVar: "FLOWGEN_TEMPLATE",
		},
	),
	Action: func(c *cli.Context) error {
		env, err := loadParams(c)
		if err != nil {
			return exitError(err)
		}

		r := newRenderer(c)

		pair, err := r.Render(env, c.String("pid"), c.String("template"), renderOpts(c)...)
		if err != nil {
			return exitError(err)
		}

		fmt.Printf("variant: %s\n", pair.Variant)
		fmt.Printf("beforeScript: %s\n", pair.Before)
		fmt.Printf("afterScript: %s\n", pair.After)
		return nil
	},
}
