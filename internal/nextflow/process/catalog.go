package process

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flowcraft/flowgen/logger"
)

// The catalog maps template names to their process definitions. Each
// entry mirrors the channel and parameter contract of the corresponding
// Nextflow code template.
var catalog = map[string]func(log logger.Logger) *Process{
	"integrity_coverage": func(log logger.Logger) *Process {
		p := newProcess("integrity_coverage", log)
		p.InputType = Fastq
		p.OutputType = Fastq
		p.LinkStart = []string{"SIDE_phred", "SIDE_max_len"}
		p.SecondaryInputs = []ParamInput{
			{Params: "genomeSize", Channel: "IN_genome_size = Channel.value(params.genomeSize)"},
			{Params: "minCoverage", Channel: "IN_min_coverage = Channel.value(params.minCoverage)"},
		}
		return p
	},

	"check_coverage": func(log logger.Logger) *Process {
		p := newProcess("check_coverage", log)
		p.InputType = Fastq
		p.OutputType = Fastq
		p.LinkStart = []string{"SIDE_max_len"}
		p.SecondaryInputs = []ParamInput{
			{Params: "genomeSize", Channel: "IN_genome_size = Channel.value(params.genomeSize)"},
			{Params: "minCoverage", Channel: "IN_min_coverage = Channel.value(params.minCoverage)"},
		}
		return p
	},

	"fastqc": func(log logger.Logger) *Process {
		p := newProcess("fastqc", log)
		p.InputType = Fastq
		p.OutputType = Fastq
		p.StatusChannels = []string{"STATUS_fastqc", "STATUS_report"}
		p.SecondaryInputs = []ParamInput{
			{Params: "adapters", Channel: "IN_adapters = Channel.value(params.adapters)"},
		}
		return p
	},

	"trimmomatic": func(log logger.Logger) *Process {
		p := newProcess("trimmomatic", log)
		p.InputType = Fastq
		p.OutputType = Fastq
		p.LinkEnd = []Link{{Link: "SIDE_phred", Alias: "SIDE_phred"}}
		p.SecondaryInputs = []ParamInput{
			{Params: "trimOpts", Channel: "IN_trimmomatic_opts = Channel.value([params.trimSlidingWindow," +
				"params.trimLeading,params.trimTrailing,params.trimMinLength])"},
		}
		return p
	},

	"fastqc_trimmomatic": func(log logger.Logger) *Process {
		p := newProcess("fastqc_trimmomatic", log)
		p.InputType = Fastq
		p.OutputType = Fastq
		p.StatusChannels = []string{"STATUS_fastqc", "STATUS_report", "STATUS_trim"}
		p.LinkEnd = []Link{{Link: "SIDE_phred", Alias: "SIDE_phred"}}
		p.SecondaryInputs = []ParamInput{
			{Params: "adapters", Channel: "IN_adapters = Channel.value(params.adapters)"},
			{Params: "trimOpts", Channel: "IN_trimmomatic_opts = Channel.value([params.trimSlidingWindow," +
				"params.trimLeading,params.trimTrailing,params.trimMinLength])"},
		}
		return p
	},

	"skesa": func(log logger.Logger) *Process {
		p := newProcess("skesa", log)
		p.InputType = Fastq
		p.OutputType = Assembly
		return p
	},

	"spades": func(log logger.Logger) *Process {
		p := newProcess("spades", log)
		p.InputType = Fastq
		p.OutputType = Assembly
		p.LinkEnd = []Link{{Link: "SIDE_max_len", Alias: "SIDE_max_len"}}
		p.SecondaryInputs = []ParamInput{
			{Params: "spadesOpts", Channel: "IN_spades_opts = Channel.value(" +
				"[params.spadesMinCoverage,params.spadesMinKmerCoverage])"},
			{Params: "spadesKmers", Channel: "IN_spades_kmers = Channel.value(params.spadesKmers)"},
		}
		return p
	},

	"process_spades": func(log logger.Logger) *Process {
		p := newProcess("process_spades", log)
		p.InputType = Assembly
		p.OutputType = Assembly
		p.SecondaryInputs = []ParamInput{
			{Params: "processSpadesOpts", Channel: "IN_process_spades_opts = " +
				"Channel.value([params.spadesMinContigLen," +
				"params.spadesMinKmerCoverage,params.spadesMaxContigs])"},
		}
		return p
	},

	"assembly_mapping": func(log logger.Logger) *Process {
		p := newProcess("assembly_mapping", log)
		p.InputType = Assembly
		p.OutputType = Assembly
		p.StatusChannels = []string{"STATUS_am", "STATUS_amp"}
		p.LinkStart = []string{"SIDE_BpCoverage"}
		p.LinkEnd = []Link{{Link: "MAIN_fq", Alias: "_MAIN_assembly"}}
		p.SecondaryInputs = []ParamInput{
			{Params: "assemblyMappingOpts", Channel: "IN_assembly_mapping_opts = " +
				"Channel.value([params.minAssemblyCoverage,params.AMaxContigs])"},
		}
		return p
	},

	"pilon": func(log logger.Logger) *Process {
		p := newProcess("pilon", log)
		p.InputType = Assembly
		p.OutputType = Assembly
		p.Dependencies = []string{"assembly_mapping"}
		p.LinkEnd = []Link{{Link: "SIDE_BpCoverage", Alias: "SIDE_BpCoverage"}}
		return p
	},

	"mlst": func(log logger.Logger) *Process {
		p := newProcess("mlst", log)
		p.InputType = Assembly
		p.OutputType = Assembly
		return p
	},

	"abricate": func(log logger.Logger) *Process {
		p := newProcess("abricate", log)
		p.InputType = Assembly
		p.OutputType = None
		p.IgnoreType = true
		p.LinkEnd = []Link{{Link: "MAIN_assembly", Alias: "MAIN_assembly"}}
		return p
	},

	"prokka": func(log logger.Logger) *Process {
		p := newProcess("prokka", log)
		p.InputType = Assembly
		p.OutputType = None
		p.IgnoreType = true
		p.LinkEnd = []Link{{Link: "MAIN_assembly", Alias: "MAIN_assembly"}}
		return p
	},

	"chewbbaca": func(log logger.Logger) *Process {
		p := newProcess("chewbbaca", log)
		p.InputType = Assembly
		p.OutputType = None
		p.IgnoreType = true
		p.LinkEnd = []Link{{Link: "MAIN_assembly", Alias: "MAIN_assembly"}}
		return p
	},

	"seq_typing": func(log logger.Logger) *Process {
		p := newProcess("seq_typing", log)
		p.InputType = Fastq
		p.OutputType = None
		p.IgnoreType = true
		p.IgnorePID = true
		p.StatusChannels = nil
		p.LinkEnd = []Link{{Link: "MAIN_raw", Alias: "SIDE_SeqType_raw"}}
		return p
	},

	"patho_typing": func(log logger.Logger) *Process {
		p := newProcess("patho_typing", log)
		p.InputType = Fastq
		p.OutputType = None
		p.IgnoreType = true
		p.IgnorePID = true
		p.StatusChannels = nil
		p.LinkEnd = []Link{{Link: "MAIN_raw", Alias: "SIDE_PathoType_raw"}}
		p.SecondaryInputs = []ParamInput{
			{Params: "pathoSpecies", Channel: "IN_pathoSpecies = Channel.value(params.pathoSpecies)"},
		}
		return p
	},
}

// New creates the process for a catalog template name.
func New(name string, log logger.Logger) (*Process, error) {
	build, ok := catalog[name]
	if !ok {
		return nil, &UnknownTemplateError{Name: name}
	}
	return build(log), nil
}

// Names returns the sorted catalog template names.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewInit creates the pipeline entry process, which owns the raw input
// channels and their forks.
func NewInit(log logger.Logger) *Process {
	p := newProcess("init", log)
	p.OutputType = Raw
	p.StatusChannels = nil
	return p
}

// NewStatusCompiler creates the process that gathers every status
// channel produced by the pipeline.
func NewStatusCompiler(log logger.Logger) *Process {
	p := newProcess("status_compiler", log)
	p.IgnoreType = true
	p.StatusChannels = nil
	return p
}

// NewTraceCompiler creates the process that compiles the pipeline
// execution trace.
func NewTraceCompiler(log logger.Logger) *Process {
	p := newProcess("trace_compiler", log)
	p.IgnoreType = true
	p.StatusChannels = nil
	return p
}

// MixChannels combines status channel names into the Nextflow channel
// expression that feeds the status compiler.
func MixChannels(channels []string) string {
	if len(channels) == 0 {
		return ""
	}
	if len(channels) == 1 {
		return channels[0]
	}
	return fmt.Sprintf("%s.mix(%s)", channels[0], strings.Join(channels[1:], ","))
}

// UnknownTemplateError is returned for template names absent from the
// catalog.
type UnknownTemplateError struct {
	Name string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("process template %q does not exist, available templates: %s",
		e.Name, strings.Join(Names(), ", "))
}
