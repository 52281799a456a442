package hook

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flowcraft/flowgen/params"
)

func reportingEnv() *params.Environment {
	return params.FromMap(map[string]string{
		"platformHTTP":    "https://x",
		"projectId":       "P1",
		"pipelineId":      "L1",
		"sampleName":      "S1",
		"reportHTTP":      "https://r",
		"currentUserName": "u",
		"currentUserId":   "42",
		"platformSpecies": "human",
	})
}

func TestRenderReporting(t *testing.T) {
	t.Parallel()

	pair, err := NewRenderer().Render(reportingEnv(), "7", "align")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := Pair{
		Variant: WithReporting,
		Before:  `PATH=${workflow.projectDir}/bin:$PATH; export PATH; set_dotfiles.sh; startup_POST.sh P1 L1 7 https://x`,
		After:   `final_POST.sh P1 L1 7 https://x; report_POST.sh P1 L1 7 S1 https://r u 42 align_7 "human" true`,
	}
	if diff := cmp.Diff(want, pair); diff != "" {
		t.Errorf("Render() diff (-want +got):\n%s", diff)
	}
}

func TestRenderWithoutPlatformHTTP(t *testing.T) {
	t.Parallel()

	env := reportingEnv()
	env.SetNull("platformHTTP")

	pair, err := NewRenderer().Render(env, "7", "align")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := Pair{
		Variant: WithoutReporting,
		Before:  `PATH=${workflow.projectDir}/bin:$PATH; set_dotfiles.sh`,
	}
	if diff := cmp.Diff(want, pair); diff != "" {
		t.Errorf("Render() diff (-want +got):\n%s", diff)
	}
	if strings.Contains(pair.Before, "startup_POST.sh") {
		t.Errorf("Render() before hook references startup_POST.sh without platformHTTP: %q", pair.Before)
	}
}

func TestRenderProjectDirOverride(t *testing.T) {
	t.Parallel()

	env := params.New()

	pair, err := NewRenderer(WithProjectDir("/opt/flow")).Render(env, "1", "fastqc")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if want := `PATH=/opt/flow/bin:$PATH; set_dotfiles.sh`; pair.Before != want {
		t.Errorf("Render() before = %q, want %q", pair.Before, want)
	}
}

func TestRenderOverwrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []RenderOpt
		want string
	}{
		{name: "default", want: "true"},
		{name: "explicit false", opts: []RenderOpt{WithOverwrite("false")}, want: "false"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			pair, err := NewRenderer().Render(reportingEnv(), "7", "align", test.opts...)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			tokens := strings.Fields(pair.After)
			if got := tokens[len(tokens)-1]; got != test.want {
				t.Errorf("Render() after hook final token = %q, want %q", got, test.want)
			}
		})
	}
}

func TestRenderMissingReportingParameter(t *testing.T) {
	t.Parallel()

	for _, key := range []string{
		"projectId",
		"pipelineId",
		"sampleName",
		"reportHTTP",
		"currentUserName",
		"currentUserId",
		"platformSpecies",
	} {
		key := key
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			env := reportingEnv()
			env.Remove(key)

			_, err := NewRenderer().Render(env, "7", "align")

			var missing *MissingParameterError
			if !errors.As(err, &missing) {
				t.Fatalf("Render() error = %v, want MissingParameterError", err)
			}
			if missing.Name != key {
				t.Errorf("MissingParameterError.Name = %q, want %q", missing.Name, key)
			}
		})
	}
}

func TestRenderEmptyValuesPassThrough(t *testing.T) {
	t.Parallel()

	env := reportingEnv()
	env.Set("sampleName", "")

	pair, err := NewRenderer().Render(env, "7", "align")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(pair.After, "report_POST.sh P1 L1 7  https://r") {
		t.Errorf("Render() after hook = %q, want empty sampleName passed through", pair.After)
	}
}

func TestRenderRejectsEmptyIdentifiers(t *testing.T) {
	t.Parallel()

	r := NewRenderer()

	if _, err := r.Render(params.New(), "", "align"); err == nil {
		t.Errorf("Render() with empty pid: error = nil, want error")
	}
	if _, err := r.Render(params.New(), "7", ""); err == nil {
		t.Errorf("Render() with empty template name: error = nil, want error")
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	r := NewRenderer()

	first, err := r.Render(reportingEnv(), "7", "align")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := r.Render(reportingEnv(), "7", "align")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Render() not idempotent, diff (-first +second):\n%s", diff)
	}
}
