package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, tty bool, termEnv string) {
	t.Helper()
	origTTY, origEnv := isTerminalFunc, getenvFunc
	t.Cleanup(func() {
		isTerminalFunc = origTTY
		getenvFunc = origEnv
	})

	isTerminalFunc = func() bool { return tty }
	getenvFunc = func(string) string { return termEnv }
}

func TestTerminalCheck_Interactive(t *testing.T) {
	stubTerminal(t, true, "xterm-256color")

	result := NewTerminalCheck().Run(context.Background())

	assert.Equal(t, "Terminal", result.Title)
	require.Len(t, result.Findings, 2)
	assert.Equal(t, StatusPass, result.Findings[0].Status)
	assert.Equal(t, StatusPass, result.Findings[1].Status)
	assert.Equal(t, "xterm-256color", result.Findings[1].Detail)
}

func TestTerminalCheck_NotATerminal(t *testing.T) {
	stubTerminal(t, false, "")

	result := NewTerminalCheck().Run(context.Background())

	require.Len(t, result.Findings, 2)
	assert.Equal(t, StatusWarn, result.Findings[0].Status)
	assert.Equal(t, StatusWarn, result.Findings[1].Status)
	assert.Contains(t, result.Findings[1].Detail, "not set")
}

func TestTerminalCheck_DumbTerminal(t *testing.T) {
	stubTerminal(t, true, "dumb")

	result := NewTerminalCheck().Run(context.Background())

	require.Len(t, result.Findings, 2)
	assert.Equal(t, StatusFail, result.Findings[1].Status)
}
