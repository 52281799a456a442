// Package pipeline assembles generated Nextflow pipeline documents from
// a space-separated list of process template names.
package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/flowcraft/flowgen/hook"
	"github.com/flowcraft/flowgen/internal/nextflow/process"
	"github.com/flowcraft/flowgen/internal/shellscript"
	"github.com/flowcraft/flowgen/logger"
	"github.com/flowcraft/flowgen/params"
)

// Links fed from the pipeline's main data flow rather than from a
// process-declared link start.
const (
	linkMainRaw      = "MAIN_raw"
	linkMainFastq    = "MAIN_fq"
	linkMainAssembly = "MAIN_assembly"
)

// TypeMismatchError reports two neighbouring processes whose data types
// cannot be connected.
type TypeMismatchError struct {
	FromTemplate string
	FromType     process.DataType
	ToTemplate   string
	ToType       process.DataType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("output type %q of process %q does not match input type %q of process %q",
		e.FromType, e.FromTemplate, e.ToType, e.ToTemplate)
}

type builderOpt func(*Builder)

// Builder generates pipeline documents. One Builder can generate any
// number of pipelines against the same parameter environment.
type Builder struct {
	log         logger.Logger
	env         *params.Environment
	renderer    *hook.Renderer
	overwrite   string
	extraBefore []string
	extraAfter  []string
}

// WithLogger sets the logger used for wiring diagnostics.
func WithLogger(l logger.Logger) builderOpt {
	return func(b *Builder) {
		b.log = l
	}
}

// WithHookRenderer overrides the lifecycle hook renderer.
func WithHookRenderer(r *hook.Renderer) builderOpt {
	return func(b *Builder) {
		b.renderer = r
	}
}

// WithOverwrite sets the overwrite flag passed to the report hook.
func WithOverwrite(overwrite string) builderOpt {
	return func(b *Builder) {
		b.overwrite = overwrite
	}
}

// WithExtraBeforeScript appends user commands to every before hook.
func WithExtraBeforeScript(cmds ...string) builderOpt {
	return func(b *Builder) {
		b.extraBefore = append(b.extraBefore, cmds...)
	}
}

// WithExtraAfterScript appends user commands to every after hook.
func WithExtraAfterScript(cmds ...string) builderOpt {
	return func(b *Builder) {
		b.extraAfter = append(b.extraAfter, cmds...)
	}
}

func NewBuilder(env *params.Environment, opts ...builderOpt) *Builder {
	b := &Builder{
		log:      logger.Discard,
		env:      env,
		renderer: hook.NewRenderer(),
	}

	for _, o := range opts {
		o(b)
	}

	return b
}

// Document is one generated pipeline.
type Document struct {
	Definition string
	Processes  []*process.Process
	Params     []string
	Contents   string
}

// Build parses a pipeline definition and assembles the full Nextflow
// document for it.
func (b *Builder) Build(definition string) (*Document, error) {
	names := strings.Fields(definition)
	if len(names) == 0 {
		return nil, errors.New("pipeline definition is empty")
	}

	for _, cmd := range append(append([]string{}, b.extraBefore...), b.extraAfter...) {
		if err := shellscript.Validate(cmd); err != nil {
			return nil, fmt.Errorf("invalid extra hook command: %w", err)
		}
	}

	procs, err := b.resolveProcesses(names)
	if err != nil {
		return nil, err
	}

	if err := checkTypes(procs); err != nil {
		return nil, err
	}

	w := newWiring(b, procs)
	if err := w.connect(); err != nil {
		return nil, err
	}

	return w.render()
}

// resolveProcesses expands dependencies and instantiates catalog
// processes, assigning pids and channel names.
func (b *Builder) resolveProcesses(names []string) ([]*process.Process, error) {
	var expanded []string
	seen := map[string]bool{}

	for _, name := range names {
		p, err := process.New(name, b.log)
		if err != nil {
			return nil, err
		}
		for _, dep := range p.Dependencies {
			if !seen[dep] {
				b.log.Notice("Process %s depends on %s, inserting it into the pipeline", name, dep)
				expanded = append(expanded, dep)
				seen[dep] = true
			}
		}
		expanded = append(expanded, name)
		seen[name] = true
	}

	procs := make([]*process.Process, 0, len(expanded))
	pid := 1
	for _, name := range expanded {
		p, err := process.New(name, b.log)
		if err != nil {
			return nil, err
		}

		suffix := strconv.Itoa(pid)
		p.SetMainChannelNames(suffix, suffix, 1)
		p.PID = pid
		if !p.IgnorePID {
			pid++
		}

		procs = append(procs, p)
	}

	return procs, nil
}

// checkTypes verifies that each main-chain process can consume the
// output of the previous one.
func checkTypes(procs []*process.Process) error {
	var prev *process.Process
	for _, p := range procs {
		if isSideTap(p) {
			continue
		}
		if prev != nil && !p.IgnoreType && prev.OutputType != p.InputType {
			return &TypeMismatchError{
				FromTemplate: prev.Template,
				FromType:     prev.OutputType,
				ToTemplate:   p.Template,
				ToType:       p.InputType,
			}
		}
		prev = p
	}
	return nil
}

// A side tap consumes the main flow through a secondary channel and
// produces nothing downstream.
func isSideTap(p *process.Process) bool {
	return p.OutputType == process.None && p.IgnoreType && len(p.LinkEnd) > 0
}
