// Package process models the building blocks of a generated pipeline:
// each Process owns a Nextflow code template, the data types it consumes
// and produces, and the channel wiring the builder threads between
// neighbouring processes.
package process

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flowcraft/flowgen/internal/nextflow/templates"
	"github.com/flowcraft/flowgen/logger"
)

// DataType is the kind of data flowing through a main channel.
type DataType string

const (
	Fastq    DataType = "fastq"
	Assembly DataType = "assembly"
	Raw      DataType = "raw"
	None     DataType = ""
)

// Link is one end of a secondary channel: the shared link name and the
// channel alias the consuming template reads from.
type Link struct {
	Link  string
	Alias string
}

// ParamInput declares a pipeline parameter consumed by a process, with
// the channel definition that exposes it.
type ParamInput struct {
	Params  string
	Channel string
}

// RawInput maps a main input data type to the pipeline parameter and
// raw channel that feeds the first process in a pipeline.
type RawInput struct {
	Params        string
	Channel       string
	ChannelString string
}

var rawMapping = map[DataType]RawInput{
	Fastq: {
		Params:        "fastq",
		Channel:       "IN_fastq_raw",
		ChannelString: "IN_fastq_raw = Channel.fromFilePairs(params.fastq)",
	},
	Assembly: {
		Params:        "fasta",
		Channel:       "IN_fasta_raw",
		ChannelString: "IN_fasta_raw = Channel.fromFilePairs(params.fasta)",
	},
}

// RawInputFor returns the raw channel mapping for a main input type.
func RawInputFor(t DataType) (RawInput, bool) {
	r, ok := rawMapping[t]
	return r, ok
}

// Process is one step of a generated pipeline.
type Process struct {
	// Template is the name of the Nextflow code template for this
	// process.
	Template string

	// PID is the process position in the generated pipeline.
	PID int

	// Lane the process runs in. Linear pipelines use a single lane.
	Lane int

	InputType  DataType
	OutputType DataType

	// IgnoreType exempts the process from input/output type checking.
	// Set on terminal processes fed through secondary channels.
	IgnoreType bool

	// IgnorePID stops the process from advancing the pid counter. Set
	// on terminal side taps so the main chain numbering is undisturbed.
	IgnorePID bool

	// Dependencies lists template names that must run earlier in the
	// pipeline.
	Dependencies []string

	InputChannel  string
	OutputChannel string

	// StatusChannels are the status channel prefixes the process
	// template emits; pid-suffixed names are derived at SetChannels.
	StatusChannels []string

	// LinkStart names the secondary channels this process produces.
	LinkStart []string

	// LinkEnd names the secondary channels this process consumes.
	LinkEnd []Link

	// SecondaryInputs are the pipeline parameters the process reads.
	SecondaryInputs []ParamInput

	statusStrs []string
	forks      []string
	mainForks  []string
	context    map[string]any

	log logger.Logger
}

func newProcess(template string, log logger.Logger) *Process {
	return &Process{
		Template:       template,
		StatusChannels: []string{"STATUS"},
		Lane:           1,
		log:            log,
	}
}

// SetMainChannelNames derives the main channel names from the given
// suffixes, usually the pids of the neighbouring connections.
func (p *Process) SetMainChannelNames(inputSuffix, outputSuffix string, lane int) {
	p.InputChannel = fmt.Sprintf("%s_in_%s", p.Template, inputSuffix)
	p.OutputChannel = fmt.Sprintf("%s_out_%s", p.Template, outputSuffix)
	p.Lane = lane
}

// UpdateMainForks adds a sink channel that the main output should be
// forked into.
func (p *Process) UpdateMainForks(sink string) {
	p.mainForks = append(p.mainForks, sink)
}

// SetSecondaryChannel forks one of this process's secondary channels
// (named in LinkStart) into the given sink channels. The source channel
// name carries this process's pid.
func (p *Process) SetSecondaryChannel(source string, channelList []string) {
	p.log.Debug("Setting secondary channel for source '%s': %v", source, channelList)

	src := fmt.Sprintf("%s_%d", source, p.PID)

	// Duplicate sinks appear when a fork is terminal
	channelList = dedupe(channelList)

	if len(channelList) == 1 {
		p.forks = append(p.forks, fmt.Sprintf("\n%s.set{ %s }\n", src, channelList[0]))
	} else {
		p.forks = append(p.forks, fmt.Sprintf("\n%s.into{ %s }\n", src, strings.Join(channelList, ";")))
	}

	p.log.Debug("Setting forks attribute to: %v", p.forks)
	if p.context != nil {
		p.context["Forks"] = strings.Join(p.forks, "\n")
	}
}

// StatusStrings returns the pid-suffixed status channel names. Only
// valid after SetChannels.
func (p *Process) StatusStrings() []string {
	return p.statusStrs
}

// SetChannels assigns the process pid and builds the template context.
// The extra map carries keys the builder injects, such as the rendered
// lifecycle hooks.
func (p *Process) SetChannels(pid int, extra map[string]any) {
	p.PID = pid

	for _, s := range p.StatusChannels {
		p.statusStrs = append(p.statusStrs, fmt.Sprintf("%s_%d", s, pid))
	}

	if len(p.mainForks) > 0 {
		p.log.Debug("Setting main fork channels: %v", p.mainForks)
		operator := "into"
		if len(p.mainForks) == 1 {
			operator = "set"
		}
		p.forks = append(p.forks, fmt.Sprintf("\n%s.%s{ %s }\n",
			p.OutputChannel, operator, strings.Join(p.mainForks, ";")))
	}

	p.context = map[string]any{
		"Template":      p.Template,
		"PID":           p.PID,
		"InputChannel":  p.InputChannel,
		"OutputChannel": p.OutputChannel,
		"Forks":         strings.Join(p.forks, "\n"),
		"Hooks":         "",
	}
	for k, v := range extra {
		p.context[k] = v
	}
}

// TemplateString renders the populated Nextflow template for this
// process. Channels must be set up first with SetChannels.
func (p *Process) TemplateString() (string, error) {
	if p.context == nil {
		return "", errors.New("channels must be set up first using the SetChannels method")
	}

	p.log.Debug("Setting context for template %s: %v", p.Template, p.context)

	return templates.Render(p.Template, p.context)
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
