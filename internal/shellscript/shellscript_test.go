package shellscript

import "testing"

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line    string
		wantErr bool
	}{
		{line: `cleanup_work_dir.sh`, wantErr: false},
		{line: `notify.sh "pipeline done"`, wantErr: false},
		{line: `notify.sh "unbalanced`, wantErr: true},
		{line: ``, wantErr: true},
		{line: `   `, wantErr: true},
	}

	for _, test := range tests {
		err := Validate(test.line)
		if gotErr := err != nil; gotErr != test.wantErr {
			t.Errorf("Validate(%q) error = %v, wantErr %t", test.line, err, test.wantErr)
		}
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	got := Join("set_dotfiles.sh", "", "  cleanup.sh  ")
	if want := "set_dotfiles.sh; cleanup.sh"; got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
}
