package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestNew_ConsoleLevel verifies that debug entries reach the console only with Verbose.
func TestNew_ConsoleLevel(t *testing.T) {
	var quiet bytes.Buffer
	logger, err := New(Options{Console: &quiet})
	require.NoError(t, err)
	logger.Debug("token cached")
	logger.Warn("slow response")
	_ = logger.Sync()

	assert.NotContains(t, quiet.String(), "token cached", "debug is hidden without --verbose")
	assert.Contains(t, quiet.String(), "slow response")

	var loud bytes.Buffer
	logger, err = New(Options{Verbose: true, Console: &loud})
	require.NoError(t, err)
	logger.Debug("token cached", zap.String("session", "abc"))
	_ = logger.Sync()

	assert.Contains(t, loud.String(), "token cached")
	assert.Contains(t, loud.String(), "abc")
}

// TestNew_FileSink verifies that a log file is created in a missing
// directory and receives JSON lines.
func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "turknet-query.log")

	logger, err := New(Options{File: path, Console: &bytes.Buffer{}})
	require.NoError(t, err)
	logger.Debug("request sent", zap.String("op", "GetToken"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"op":"GetToken"`)
	assert.Contains(t, string(data), `"msg":"request sent"`)
}
