package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/flowcraft/flowgen/clicommand"
	"github.com/flowcraft/flowgen/version"
)

const appHelpTemplate = `Usage:

  {{.Name}} <command> [options...]

Available commands are:

  {{range .Commands}}{{.Name}}{{with .ShortName}}, {{.}}{{end}}{{ "\t" }}{{.Usage}}
  {{end}}
Use "{{.Name}} <command> --help" for more information about a command.
`

func main() {
	cli.AppHelpTemplate = appHelpTemplate

	app := cli.NewApp()
	app.Name = "flowgen"
	app.Version = version.Version()
	app.Usage = "Assemble Nextflow pipelines from process templates"
	app.Commands = clicommand.FlowgenCommands

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
