package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mcp.log")

	// Nothing is written while logging is off
	MCPLogInfo("dropped")

	require.NoError(t, openMCPLog(path))
	MCPLogInfo("export_channel_csv url=%s", "@RichAndLegit")
	MCPLogError("failed: %v", "boom")
	require.NoError(t, CloseMCPLog())
	require.NoError(t, CloseMCPLog())

	MCPLogDebug("after close")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	log := string(data)
	assert.Contains(t, log, "[MCP] [INFO] export_channel_csv url=@RichAndLegit")
	assert.Contains(t, log, "[MCP] [ERROR] failed: boom")
	assert.NotContains(t, log, "dropped")
	assert.NotContains(t, log, "after close")
}
