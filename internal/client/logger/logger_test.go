package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitialize(t *testing.T) {
	defer func() { ClientLog = zap.NewNop() }()

	require.Error(t, Initialize("not a level", ""))

	logFile := filepath.Join(t.TempDir(), "client.log")
	for _, msg := range []string{"first run", "second run"} {
		require.NoError(t, Initialize("info", logFile))
		ClientLog.Info(msg)
		ClientLog.Debug("hidden")
		require.NoError(t, ClientLog.Sync())
	}

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	content := string(data)

	// записи предыдущих запусков сохраняются
	assert.Contains(t, content, "first run")
	assert.Contains(t, content, "second run")
	assert.NotContains(t, content, "hidden")
	assert.Equal(t, 2, strings.Count(content, `"role":"client"`))
}
