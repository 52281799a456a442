package clicommand

import (
	"os"

	"github.com/urfave/cli"

	"github.com/flowcraft/flowgen/internal/nextflow/pipeline"
)

const buildHelpDescription = `Usage:

    flowgen build --tasks "<process templates>" [options]

Description:

Generates a Nextflow pipeline file from a space-separated list of
process templates. Neighbouring processes are connected through their
main channels, and each process block carries the lifecycle hooks for
the configured platform parameters.

When --platform-http is set, the generated hooks announce each process
to the platform before it runs and report its results afterwards.
Without it, the hooks only prepare the execution environment.

Example:

    $ flowgen build -t "integrity_coverage fastqc_trimmomatic spades" -o my_pipeline.nf`

var BuildCommand = cli.Command{
	Name:        "build",
	Usage:       "Generate a Nextflow pipeline from process templates",
	Description: buildHelpDescription,
	Flags: append(append(globalFlags(), paramFlags()...),
		cli.StringFlag{
			Name:   "tasks, t",
			Usage:  "Space-separated process templates composing the pipeline",
			EnvVar: "FLOWGEN_TASKS",
		},
		cli.StringFlag{
			Name:   "output, o",
			Usage:  "Path of the generated pipeline file (defaults to stdout)",
			EnvVar: "FLOWGEN_OUTPUT",
		},
		cli.StringSliceFlag{
			Name:  "extra-before-script",
			Usage: "Extra shell command appended to every before hook (can be repeated)",
		},
		cli.StringSliceFlag{
			Name:  "extra-after-script",
			Usage: "Extra shell command appended to every after hook (can be repeated)",
		},
	),
	Action: func(c *cli.Context) error {
		l := CreateLogger(c)

		env, err := loadParams(c)
		if err != nil {
			return exitError(err)
		}

		b := pipeline.NewBuilder(env,
			pipeline.WithLogger(l),
			pipeline.WithHookRenderer(newRenderer(c)),
			pipeline.WithOverwrite(c.String("overwrite")),
			pipeline.WithExtraBeforeScript(c.StringSlice("extra-before-script")...),
			pipeline.WithExtraAfterScript(c.StringSlice("extra-after-script")...),
		)

		doc, err := b.Build(c.String("tasks"))
		if err != nil {
			return exitError(err)
		}

		if out := c.String("output"); out != "" {
			if err := doc.WriteFile(out); err != nil {
				return exitError(err)
			}
			l.Notice("Pipeline written to %s", out)
			return nil
		}

		if _, err := doc.WriteTo(os.Stdout); err != nil {
			return exitError(err)
		}
		return nil
	},
}
