package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNopWithoutPath(t *testing.T) {
	logger, flush, err := New("", true)
	require.NoError(t, err)
	defer flush()

	logger.Info("discarded")
	assert.False(t, logger.Core().Enabled(0), "nop logger must not enable any level")
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appscope.log")

	logger, flush, err := New(path, false)
	require.NoError(t, err)

	logger.Info("hello")
	logger.Debug("hidden")
	flush()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello")
	assert.NotContains(t, string(content), "hidden", "info level filters debug")
}
