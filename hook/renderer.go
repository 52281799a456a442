// Package hook renders the lifecycle hooks attached to each generated
// pipeline process. Every process block in a generated pipeline carries
// a beforeScript hook that prepares the execution environment, and,
// when a platform endpoint is configured, an afterScript hook that
// reports results back to it.
package hook

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/flowcraft/flowgen/params"
)

// Parameter environment keys read by the renderer.
const (
	PlatformHTTPKey    = "platformHTTP"
	ProjectIDKey       = "projectId"
	PipelineIDKey      = "pipelineId"
	SampleNameKey      = "sampleName"
	ReportHTTPKey      = "reportHTTP"
	CurrentUserNameKey = "currentUserName"
	CurrentUserIDKey   = "currentUserId"
	PlatformSpeciesKey = "platformSpecies"
)

// DefaultOverwrite is the overwrite flag passed to report_POST.sh when
// the caller supplies no override.
const DefaultOverwrite = "true"

// DefaultProjectDir is the Nextflow runtime expression for the pipeline
// project directory. Hooks rendered with it resolve their bin/ path when
// the generated pipeline runs, not when it is generated.
const DefaultProjectDir = "${workflow.projectDir}"

const (
	plainBeforeScript = `PATH={{.ProjectDir}}/bin:$PATH; set_dotfiles.sh`

	reportingBeforeScript = `PATH={{.ProjectDir}}/bin:$PATH; export PATH; set_dotfiles.sh; startup_POST.sh {{.ProjectID}} {{.PipelineID}} {{.PID}} {{.PlatformHTTP}}`

	reportingAfterScript = `final_POST.sh {{.ProjectID}} {{.PipelineID}} {{.PID}} {{.PlatformHTTP}}; report_POST.sh {{.ProjectID}} {{.PipelineID}} {{.PID}} {{.SampleName}} {{.ReportHTTP}} {{.UserName}} {{.UserID}} {{.Template}}_{{.PID}} "{{.Species}}" {{.Overwrite}}`
)

var (
	plainBeforeTmpl     = template.Must(template.New("plain-before").Parse(plainBeforeScript))
	reportingBeforeTmpl = template.Must(template.New("reporting-before").Parse(reportingBeforeScript))
	reportingAfterTmpl  = template.Must(template.New("reporting-after").Parse(reportingAfterScript))
)

type scriptTemplateInput struct {
	ProjectDir   string
	ProjectID    string
	PipelineID   string
	PID          string
	Template     string
	PlatformHTTP string
	SampleName   string
	ReportHTTP   string
	UserName     string
	UserID       string
	Species      string
	Overwrite    string
}

// Variant tags which of the two mutually exclusive hook shapes was
// rendered.
type Variant string

const (
	// WithReporting is rendered when platformHTTP is set: the before
	// hook announces the process to the platform, and the after hook
	// posts its results and report.
	WithReporting Variant = "reporting"

	// WithoutReporting is rendered when platformHTTP is unset: the
	// before hook only sets up dotfiles, and there is no after hook.
	WithoutReporting Variant = "plain"
)

// Pair holds the rendered hook commands for one process. After is empty
// for the WithoutReporting variant.
type Pair struct {
	Variant Variant
	Before  string
	After   string
}

// MissingParameterError is returned when a parameter referenced by the
// selected hook variant is not set in the parameter environment.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("required parameter %q is not set in the parameter environment", e.Name)
}

// RendererOpt configures a Renderer.
type RendererOpt func(*Renderer)

// Renderer renders the hook pair for a pipeline process. Rendering is
// pure string construction; values are interpolated without escaping,
// so parameters are trusted to be shell-safe.
type Renderer struct {
	projectDir string
}

// WithProjectDir overrides the project directory whose bin/ is
// prepended to PATH in the before hook.
func WithProjectDir(dir string) RendererOpt {
	return func(r *Renderer) {
		r.projectDir = dir
	}
}

func NewRenderer(opts ...RendererOpt) *Renderer {
	r := &Renderer{
		projectDir: DefaultProjectDir,
	}

	for _, o := range opts {
		o(r)
	}

	return r
}

// RenderOpt configures a single Render call.
type RenderOpt func(*scriptTemplateInput)

// WithOverwrite overrides the overwrite flag passed to report_POST.sh.
func WithOverwrite(overwrite string) RenderOpt {
	return func(in *scriptTemplateInput) {
		in.Overwrite = overwrite
	}
}

// Render produces the hook pair for one process. pid is the process
// position in the generated pipeline and templateName the name of its
// process template; both must be non-empty. The variant is selected on
// the presence of platformHTTP: when set, all reporting parameters must
// also be set, and a MissingParameterError names the first one that is
// not.
func (r *Renderer) Render(env *params.Environment, pid, templateName string, opts ...RenderOpt) (Pair, error) {
	if pid == "" {
		return Pair{}, errors.New("process id was not provided")
	}
	if templateName == "" {
		return Pair{}, errors.New("template name was not provided")
	}

	in := scriptTemplateInput{
		ProjectDir: r.projectDir,
		PID:        pid,
		Template:   templateName,
		Overwrite:  DefaultOverwrite,
	}

	for _, o := range opts {
		o(&in)
	}

	platformHTTP, reporting := env.Get(PlatformHTTPKey)
	if !reporting {
		before, err := execute(plainBeforeTmpl, in)
		if err != nil {
			return Pair{}, err
		}
		return Pair{Variant: WithoutReporting, Before: before}, nil
	}

	in.PlatformHTTP = platformHTTP

	for _, p := range []struct {
		key  string
		dest *string
	}{
		{ProjectIDKey, &in.ProjectID},
		{PipelineIDKey, &in.PipelineID},
		{SampleNameKey, &in.SampleName},
		{ReportHTTPKey, &in.ReportHTTP},
		{CurrentUserNameKey, &in.UserName},
		{CurrentUserIDKey, &in.UserID},
		{PlatformSpeciesKey, &in.Species},
	} {
		v, ok := env.Get(p.key)
		if !ok {
			return Pair{}, &MissingParameterError{Name: p.key}
		}
		*p.dest = v
	}

	before, err := execute(reportingBeforeTmpl, in)
	if err != nil {
		return Pair{}, err
	}

	after, err := execute(reportingAfterTmpl, in)
	if err != nil {
		return Pair{}, err
	}

	return Pair{Variant: WithReporting, Before: before, After: after}, nil
}

func execute(tmpl *template.Template, in scriptTemplateInput) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, in); err != nil {
		return "", fmt.Errorf("rendering %s hook: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}
