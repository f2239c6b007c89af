package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func TestMCPListVideos(t *testing.T) {
	lister := &fakeLister{videos: []VideoRecord{{ID: "a", Title: "First"}, {ID: "b", Title: "Second"}}}
	s := NewMCPServer(newTestApp(WithLister(lister)), "test")

	text, isError := callTool(t, s.handleListVideos, map[string]any{"url": "@RichAndLegit"})
	assert.False(t, isError)
	assert.Equal(t, "a\tFirst\nb\tSecond\n", text)

	_, isError = callTool(t, s.handleListVideos, map[string]any{})
	assert.True(t, isError)
}

func TestMCPExportChannel(t *testing.T) {
	lister := &fakeLister{videos: []VideoRecord{{ID: "a", Title: "First", Description: "d"}}}
	transcripts := fakeTranscripts{"a": {Status: TranscriptOK, Text: "spoken words"}}
	s := NewMCPServer(newTestApp(WithLister(lister), WithTranscripts(transcripts)), "test")
	out := filepath.Join(t.TempDir(), "export.csv")

	text, isError := callTool(t, s.handleExportChannel, map[string]any{"url": "@RichAndLegit", "output": out})
	require.False(t, isError, text)
	assert.Contains(t, text, "| Rows written | 1 |")
	assert.Equal(t, [][]string{CSVHeader, {"First", "d", "spoken words"}}, readCSV(t, out))

	empty := NewMCPServer(newTestApp(WithLister(&fakeLister{}), WithTranscripts(transcripts)), "test")
	text, isError = callTool(t, empty.handleExportChannel, map[string]any{"url": "@RichAndLegit", "output": out})
	assert.True(t, isError)
	assert.Contains(t, text, ErrNoVideos.Error())
}

func TestMCPGetTranscript(t *testing.T) {
	transcripts := fakeTranscripts{
		"tAP1eZYEuKA": {Status: TranscriptOK, Text: "hello"},
		"disabled123": {Status: TranscriptDisabled},
	}
	s := NewMCPServer(newTestApp(WithTranscripts(transcripts)), "test")

	text, isError := callTool(t, s.handleGetTranscript, map[string]any{"video": "https://youtu.be/tAP1eZYEuKA"})
	assert.False(t, isError)
	assert.Equal(t, "hello", text)

	text, isError = callTool(t, s.handleGetTranscript, map[string]any{"video": "disabled123"})
	assert.True(t, isError)
	assert.Contains(t, text, TranscriptDisabledText)
}

func TestDivertStdout(t *testing.T) {
	dir := t.TempDir()
	stdout, err := os.Create(filepath.Join(dir, "stdout"))
	require.NoError(t, err)
	stderr, err := os.Create(filepath.Join(dir, "stderr"))
	require.NoError(t, err)

	origOut, origErr := os.Stdout, os.Stderr
	t.Cleanup(func() { os.Stdout, os.Stderr = origOut, origErr })
	os.Stdout, os.Stderr = stdout, stderr

	protocol, restore := divertStdout()
	assert.Same(t, stdout, protocol)
	fmt.Println("Retry 1: failed to fetch")
	fmt.Fprintln(protocol, `{"jsonrpc":"2.0"}`)
	restore()
	assert.Same(t, stdout, os.Stdout)

	require.NoError(t, stdout.Close())
	require.NoError(t, stderr.Close())
	out, err := os.ReadFile(stdout.Name())
	require.NoError(t, err)
	assert.Equal(t, "{\"jsonrpc\":\"2.0\"}\n", string(out))
	errOut, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)
	assert.Equal(t, "Retry 1: failed to fetch\n", string(errOut))
}
