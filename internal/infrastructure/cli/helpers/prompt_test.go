package helpers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input   string
		def     bool
		want    bool
		choices string
	}{
		{"y\n", false, true, "[y/N]"},
		{"YES\n", false, true, "[y/N]"},
		{"\n", false, false, "[y/N]"},
		{"\n", true, true, "[Y/n]"},
		{"nope\n", true, false, "[Y/n]"},
		{"", true, true, "[Y/n]"},
		{"y", false, true, "[y/N]"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := Confirm(&out, strings.NewReader(tt.input), "Overwrite?", tt.def)
		if got != tt.want {
			t.Errorf("input %q default %v: got %v, want %v", tt.input, tt.def, got, tt.want)
		}
		if !strings.HasPrefix(out.String(), "Overwrite? "+tt.choices+": ") {
			t.Errorf("unexpected prompt %q", out.String())
		}
	}
}

func TestPrintWarningsSkipsBlank(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	PrintWarnings(&out, []string{"unknown key \"colour\"", "  "})
	if out.String() != "warning: unknown key \"colour\"\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
