package clicommand

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/flowcraft/flowgen/hook"
	"github.com/flowcraft/flowgen/logger"
	"github.com/flowcraft/flowgen/params"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:   "debug",
			Usage:  "Enable debug logging of channel wiring",
			EnvVar: "FLOWGEN_DEBUG",
		},
		cli.BoolFlag{
			Name:   "no-color",
			Usage:  "Don't show colors in logging",
			EnvVar: "FLOWGEN_NO_COLOR",
		},
	}
}

// paramFlags are the platform parameters shared by the build and hook
// commands. Each maps to a key in the parameter environment.
func paramFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:   "params-file",
			Usage:  "Path to a YAML file with pipeline parameters",
			EnvVar: "FLOWGEN_PARAMS_FILE",
		},
		cli.StringFlag{
			Name:   "platform-http",
			Usage:  "Platform endpoint receiving lifecycle reports; enables the reporting hooks",
			EnvVar: "FLOWGEN_PLATFORM_HTTP",
		},
		cli.StringFlag{
			Name:   "project-id",
			Usage:  "Platform project identifier",
			EnvVar: "FLOWGEN_PROJECT_ID",
		},
		cli.StringFlag{
			Name:   "pipeline-id",
			Usage:  "Platform pipeline identifier",
			EnvVar: "FLOWGEN_PIPELINE_ID",
		},
		cli.StringFlag{
			Name:   "sample-name",
			Usage:  "Name of the sample being processed",
			EnvVar: "FLOWGEN_SAMPLE_NAME",
		},
		cli.StringFlag{
			Name:   "report-http",
			Usage:  "Platform endpoint receiving process reports",
			EnvVar: "FLOWGEN_REPORT_HTTP",
		},
		cli.StringFlag{
			Name:   "current-user-name",
			Usage:  "Platform user name attached to reports",
			EnvVar: "FLOWGEN_CURRENT_USER_NAME",
		},
		cli.StringFlag{
			Name:   "current-user-id",
			Usage:  "Platform user id attached to reports",
			EnvVar: "FLOWGEN_CURRENT_USER_ID",
		},
		cli.StringFlag{
			Name:   "platform-species",
			Usage:  "Species the platform associates with the sample",
			EnvVar: "FLOWGEN_PLATFORM_SPECIES",
		},
		cli.StringFlag{
			Name:   "overwrite",
			Usage:  "Overwrite flag passed to the report hook (defaults to \"" + hook.DefaultOverwrite + "\")",
			EnvVar: "FLOWGEN_OVERWRITE",
		},
		cli.StringFlag{
			Name:   "project-dir",
			Usage:  "Project directory whose bin/ is prepended to PATH in the before hook",
			EnvVar: "FLOWGEN_PROJECT_DIR",
		},
	}
}

var paramFlagKeys = map[string]string{
	"platform-http":     hook.PlatformHTTPKey,
	"project-id":        hook.ProjectIDKey,
	"pipeline-id":       hook.PipelineIDKey,
	"sample-name":       hook.SampleNameKey,
	"report-http":       hook.ReportHTTPKey,
	"current-user-name": hook.CurrentUserNameKey,
	"current-user-id":   hook.CurrentUserIDKey,
	"platform-species":  hook.PlatformSpeciesKey,
}

// loadParams builds the parameter environment from the params file (if
// any) with the individual flags layered on top.
func loadParams(c *cli.Context) (*params.Environment, error) {
	env := params.New()

	if path := c.String("params-file"); path != "" {
		fileEnv, err := params.LoadFile(path)
		if err != nil {
			return nil, err
		}
		env.Merge(fileEnv)
	}

	for flag, key := range paramFlagKeys {
		if v := c.String(flag); v != "" {
			env.Set(key, v)
		}
	}

	return env, nil
}

func renderOpts(c *cli.Context) []hook.RenderOpt {
	var opts []hook.RenderOpt
	if ow := c.String("overwrite"); ow != "" {
		opts = append(opts, hook.WithOverwrite(ow))
	}
	return opts
}

func newRenderer(c *cli.Context) *hook.Renderer {
	var opts []hook.RendererOpt
	if dir := c.String("project-dir"); dir != "" {
		opts = append(opts, hook.WithProjectDir(dir))
	}
	return hook.NewRenderer(opts...)
}

// CreateLogger builds the logger for a command invocation.
func CreateLogger(c *cli.Context) logger.Logger {
	l := logger.NewTextLogger()

	if c.Bool("debug") {
		l.SetLevel(logger.DEBUG)
	}
	if c.Bool("no-color") {
		if tl, ok := l.(*logger.TextLogger); ok {
			tl.Colors = false
		}
	}

	return l
}

// exitError wraps an error so urfave/cli prints it and exits non-zero.
func exitError(err error) error {
	return cli.NewExitError(fmt.Sprintf("fatal: %v", err), 1)
}
