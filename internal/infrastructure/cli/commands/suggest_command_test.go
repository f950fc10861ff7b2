package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shell-ai/internal/infrastructure/cli/helpers"
)

func TestReadPrompt(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		stdin   string
		piped   bool
		want    string
		wantErr bool
	}{
		{name: "args joined", args: []string{"list", "files"}, want: "list files"},
		{name: "args win over stdin", args: []string{"pwd"}, stdin: "ignored", piped: true, want: "pwd"},
		{name: "piped stdin collapses whitespace", stdin: "find big\n  files\n", piped: true, want: "find big files"},
		{name: "terminal stdin is not read", stdin: "typed", want: ""},
		{name: "empty pipe", stdin: " \n", piped: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &helpers.Runtime{Stdin: strings.NewReader(tt.stdin), PipedInput: tt.piped}
			got, err := readPrompt(rt, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
