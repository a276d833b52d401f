package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_StderrOnly(t *testing.T) {
	var buf bytes.Buffer
	closeLog := setup(&buf, "", false)
	defer log.SetOutput(os.Stderr)

	Printf("classified %s", "a.png")
	Debugf("hidden %d", 1)
	require.NoError(t, closeLog())

	out := buf.String()
	assert.Contains(t, out, "classified a.png")
	assert.Contains(t, out, "logging_test.go", "call site should be reported, not the wrapper")
	assert.NotContains(t, out, "hidden")
	assert.False(t, DebugEnabled())
}

func TestSetup_Debug(t *testing.T) {
	var buf bytes.Buffer
	setup(&buf, "", true)
	defer log.SetOutput(os.Stderr)
	defer debug.Store(false)

	Debugf("kernel %s", "5x5")
	assert.Contains(t, buf.String(), "[DEBUG] kernel 5x5")
	assert.True(t, DebugEnabled())
}

func TestSetup_LogFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "face-rotation.log")
	closeLog := setup(&buf, path, false)
	defer log.SetOutput(os.Stderr)

	Printf("to both")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, buf.String(), "to both")
}
