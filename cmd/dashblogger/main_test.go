package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStrengthCmd(t *testing.T) {
	out, err := run(t, "strength", "abcdefgh")
	require.NoError(t, err)
	assert.Contains(t, out, "score: 50")
	assert.Contains(t, out, "level: fair")
	assert.Contains(t, out, "missing: One uppercase letter")

	out, err = run(t, "strength", "Abcdefgh12!x")
	require.NoError(t, err)
	assert.Contains(t, out, "score: 100")
	assert.NotContains(t, out, "missing")
}

func TestStrengthCmd_RequiresArgument(t *testing.T) {
	_, err := run(t, "strength")
	assert.Error(t, err)
}

func TestExportCmd_RejectsUnknownStatus(t *testing.T) {
	_, err := run(t, "export", "--status", "gold")
	assert.Error(t, err)
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "export", "strength"} {
		assert.True(t, names[want], want)
	}
}
