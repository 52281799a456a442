package clicommand

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli"

	"github.com/flowcraft/flowgen/logger"

	"github.com/flowcraft/flowgen/internal/nextflow/process"
)

const listHelpDescription = `Usage:

    flowgen list

Description:

Prints the available process templates together with the data type each
one consumes and produces. Any of the listed names can be used in the
--tasks string of the build command.

Example:

    $ flowgen list`

var ListCommand = cli.Command{
	Name:        "list",
	Usage:       "List the available process templates",
	Description: listHelpDescription,
	Flags:       globalFlags(),
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "TEMPLATE\tINPUT\tOUTPUT")

		for _, name := range process.Names() {
			p, err := process.New(name, logger.Discard)
			if err != nil {
				return exitError(err)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.InputType, p.OutputType)
		}

		if err := w.Flush(); err != nil {
			return exitError(err)
		}
		return nil
	},
}
