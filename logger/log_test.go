package logger

import (
	"strings"
	"testing"
)

func TestTextLoggerRespectsLevel(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	l := &TextLogger{Level: NOTICE, Writer: &sb}

	l.Debug("channel wiring detail")
	l.Info("informational")
	l.Notice("pipeline written")
	l.Warn("unresolved link")

	out := sb.String()
	if strings.Contains(out, "channel wiring detail") || strings.Contains(out, "informational") {
		t.Errorf("messages below NOTICE were written: %q", out)
	}
	if !strings.Contains(out, "pipeline written") || !strings.Contains(out, "unresolved link") {
		t.Errorf("messages at or above NOTICE were dropped: %q", out)
	}
}

func TestTextLoggerPrefix(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	l := &TextLogger{Level: DEBUG, Writer: &sb}

	l.WithPrefix("wiring").Notice("connected")

	if got := sb.String(); !strings.Contains(got, "wiring") {
		t.Errorf("prefix missing from output: %q", got)
	}
	if l.Prefix != "" {
		t.Errorf("WithPrefix mutated the receiver, Prefix = %q", l.Prefix)
	}
}

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: DEBUG},
		{in: "NOTICE", want: NOTICE},
		{in: "Warn", want: WARN},
		{in: "llamas", wantErr: true},
	}

	for _, test := range tests {
		got, err := LevelFromString(test.in)
		if test.wantErr {
			if err == nil {
				t.Errorf("LevelFromString(%q) error = nil, want error", test.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("LevelFromString(%q) error = %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("LevelFromString(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestBufferRecordsMessages(t *testing.T) {
	t.Parallel()

	b := NewBuffer()
	b.Notice("process %s inserted", "assembly_mapping")
	b.Warn("no producer for %s", "SIDE_phred")

	want := []string{
		"[notice] process assembly_mapping inserted",
		"[warn] no producer for SIDE_phred",
	}
	if len(b.Messages) != len(want) {
		t.Fatalf("Messages = %v, want %v", b.Messages, want)
	}
	for i := range want {
		if b.Messages[i] != want[i] {
			t.Errorf("Messages[%d] = %q, want %q", i, b.Messages[i], want[i])
		}
	}
}
