package process

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flowcraft/flowgen/internal/nextflow/templates"
	"github.com/flowcraft/flowgen/logger"
)

func TestSetMainChannelNames(t *testing.T) {
	t.Parallel()

	p, err := New("trimmomatic", logger.Discard)
	if err != nil {
		t.Fatal(err)
	}

	p.SetMainChannelNames("1", "2", 1)

	if got, want := p.InputChannel, "trimmomatic_in_1"; got != want {
		t.Errorf("p.InputChannel = %q, want %q", got, want)
	}
	if got, want := p.OutputChannel, "trimmomatic_out_2"; got != want {
		t.Errorf("p.OutputChannel = %q, want %q", got, want)
	}
}

func TestSetChannelsStatusStrings(t *testing.T) {
	t.Parallel()

	p, err := New("fastqc", logger.Discard)
	if err != nil {
		t.Fatal(err)
	}
	p.SetMainChannelNames("2", "2", 1)
	p.SetChannels(2, nil)

	want := []string{"STATUS_fastqc_2", "STATUS_report_2"}
	if diff := cmp.Diff(want, p.StatusStrings()); diff != "" {
		t.Errorf("p.StatusStrings() diff (-want +got):\n%s", diff)
	}
}

func TestSetChannelsMainForkOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sinks []string
		want  string
	}{
		{
			name:  "single sink uses set",
			sinks: []string{"spades_in_2"},
			want:  "fastqc_out_1.set{ spades_in_2 }",
		},
		{
			name:  "multiple sinks use into",
			sinks: []string{"spades_in_2", "MAIN_assembly_3"},
			want:  "fastqc_out_1.into{ spades_in_2;MAIN_assembly_3 }",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			p, err := New("fastqc", logger.Discard)
			if err != nil {
				t.Fatal(err)
			}
			p.SetMainChannelNames("1", "1", 1)
			for _, s := range test.sinks {
				p.UpdateMainForks(s)
			}
			p.SetChannels(1, nil)

			rendered, err := p.TemplateString()
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(rendered, test.want) {
				t.Errorf("p.TemplateString() missing fork %q in:\n%s", test.want, rendered)
			}
		})
	}
}

func TestSetSecondaryChannel(t *testing.T) {
	t.Parallel()

	p, err := New("integrity_coverage", logger.Discard)
	if err != nil {
		t.Fatal(err)
	}
	p.SetMainChannelNames("1", "1", 1)
	p.SetChannels(1, nil)

	p.SetSecondaryChannel("SIDE_phred", []string{"SIDE_phred_3", "SIDE_phred_3", "SIDE_phred_5"})

	rendered, err := p.TemplateString()
	if err != nil {
		t.Fatal(err)
	}
	if want := "SIDE_phred_1.into{ SIDE_phred_3;SIDE_phred_5 }"; !strings.Contains(rendered, want) {
		t.Errorf("p.TemplateString() missing %q in:\n%s", want, rendered)
	}
}

func TestTemplateStringRequiresChannels(t *testing.T) {
	t.Parallel()

	p, err := New("spades", logger.Discard)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.TemplateString(); err == nil {
		t.Errorf("p.TemplateString() error = nil, want error before SetChannels")
	}
}

func TestTemplateStringInjectsHooks(t *testing.T) {
	t.Parallel()

	p, err := New("skesa", logger.Discard)
	if err != nil {
		t.Fatal(err)
	}
	p.SetMainChannelNames("1", "1", 1)
	p.SetChannels(1, map[string]any{
		"Hooks": `    beforeScript "set_dotfiles.sh"`,
	})

	rendered, err := p.TemplateString()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(rendered, `beforeScript "set_dotfiles.sh"`) {
		t.Errorf("p.TemplateString() missing hook line in:\n%s", rendered)
	}
}

func TestNewUnknownTemplate(t *testing.T) {
	t.Parallel()

	_, err := New("nonexistent", logger.Discard)
	if err == nil {
		t.Fatal("New(nonexistent) error = nil, want UnknownTemplateError")
	}
	if !strings.Contains(err.Error(), "available templates") {
		t.Errorf("New(nonexistent) error = %q, want it to list available templates", err)
	}
}

func TestCatalogTemplatesExist(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		if !templates.Exists(name) {
			t.Errorf("catalog entry %q has no embedded Nextflow template", name)
		}
	}
	for _, name := range []string{"init", "status_compiler", "trace_compiler"} {
		if !templates.Exists(name) {
			t.Errorf("special process %q has no embedded Nextflow template", name)
		}
	}
}

func TestMixChannels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels []string
		want     string
	}{
		{name: "none", channels: nil, want: ""},
		{name: "one", channels: []string{"STATUS_1"}, want: "STATUS_1"},
		{
			name:     "several",
			channels: []string{"STATUS_1", "STATUS_fastqc_2", "STATUS_report_2"},
			want:     "STATUS_1.mix(STATUS_fastqc_2,STATUS_report_2)",
		},
	}

	for _, test := range tests {
		if got := MixChannels(test.channels); got != test.want {
			t.Errorf("MixChannels(%v) = %q, want %q", test.channels, got, test.want)
		}
	}
}
