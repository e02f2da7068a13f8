package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeygenCmd(t *testing.T) {
	// cobra always executes from the root command, so the subcommand name
	// is passed as the first argument.
	cmd := rootCmd
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetArgs([]string{"keygen"})

	err := cmd.Execute()
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "key:   "))
	assert.True(t, strings.HasPrefix(lines[1], "nonce: "))
	assert.Len(t, strings.TrimPrefix(lines[0], "key:   "), 32)
	assert.Len(t, strings.TrimPrefix(lines[1], "nonce: "), 32)
}
