package internal

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"chanscribe",
		version,
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("resolve_channel",
		mcp.WithDescription("Resolve a YouTube channel URL (@handle, /channel/UC..., /c/name or /user/name) to its canonical channel ID. Requires a YouTube Data API key."),
		mcp.WithString("url",
			mcp.Description("YouTube channel URL or @handle"),
			mcp.Required(),
		),
	), s.handleResolveChannel)

	s.mcpServer.AddTool(mcp.NewTool("list_channel_videos",
		mcp.WithDescription("List every video of a YouTube channel as tab separated 'id<TAB>title' lines, in the order YouTube reports them. The api source only returns IDs."),
		mcp.WithString("url",
			mcp.Description("YouTube channel URL or @handle"),
			mcp.Required(),
		),
		mcp.WithString("source",
			mcp.Description("Where to list videos from: 'ytdlp' (default, no key) or 'api'"),
			mcp.Enum(SourceYtDlp, SourceAPI),
		),
	), s.handleListVideos)

	s.mcpServer.AddTool(mcp.NewTool("get_video_transcript",
		mcp.WithDescription("Get the plain text transcript of a single YouTube video, with segments joined by spaces. Fails if the video has no transcript."),
		mcp.WithString("video",
			mcp.Description("YouTube video URL or 11 character video ID"),
			mcp.Required(),
		),
	), s.handleGetTranscript)

	s.mcpServer.AddTool(mcp.NewTool("export_channel_csv",
		mcp.WithDescription("Export title, description and transcript of every video on a channel to a CSV file. Slow for large channels: one transcript request per video."),
		mcp.WithString("url",
			mcp.Description("YouTube channel URL or @handle"),
			mcp.Required(),
		),
		mcp.WithString("output",
			mcp.Description("Path of the CSV file to write (overwritten)"),
			mcp.Required(),
		),
		mcp.WithString("source",
			mcp.Description("Where to list videos from: 'ytdlp' (default, no key) or 'api'"),
			mcp.Enum(SourceYtDlp, SourceAPI),
		),
	), s.handleExportChannel)
}

// handleResolveChannel implements the resolve_channel tool
func (s *MCPServer) handleResolveChannel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}
	MCPLogInfo("resolve_channel url=%s", url)

	id, err := s.app.ResolveChannel(ctx, url)
	if err != nil {
		MCPLogError("resolve_channel url=%s: %v", url, err)
		return mcp.NewToolResultErrorFromErr("could not resolve channel", err), nil
	}

	return mcp.NewToolResultText(id), nil
}

// handleListVideos implements the list_channel_videos tool
func (s *MCPServer) handleListVideos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}
	source := request.GetString("source", "")
	MCPLogInfo("list_channel_videos url=%s source=%s", url, source)

	videos, err := s.app.ListChannelVideos(ctx, url, source)
	if err != nil {
		MCPLogError("list_channel_videos url=%s: %v", url, err)
		return mcp.NewToolResultErrorFromErr("could not list channel videos", err), nil
	}
	MCPLogDebug("list_channel_videos url=%s found %d videos", url, len(videos))

	return mcp.NewToolResultText(FormatVideoList(videos)), nil
}

// handleGetTranscript implements the get_video_transcript tool
func (s *MCPServer) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, err := request.RequireString("video")
	if err != nil {
		return mcp.NewToolResultError("video parameter is required and must be a string"), nil
	}
	MCPLogInfo("get_video_transcript video=%s", video)

	transcript, err := s.app.VideoTranscript(ctx, video)
	if err != nil {
		MCPLogError("get_video_transcript video=%s: %v", video, err)
		return mcp.NewToolResultErrorFromErr("no transcript available", err), nil
	}

	return mcp.NewToolResultText(transcript), nil
}

// handleExportChannel implements the export_channel_csv tool
func (s *MCPServer) handleExportChannel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError("output parameter is required and must be a string"), nil
	}
	source := request.GetString("source", "")
	MCPLogInfo("export_channel_csv url=%s output=%s source=%s", url, output, source)

	stats, err := s.app.ExportChannel(ctx, ExportOptions{
		ChannelURL: url,
		OutputPath: output,
		Source:     source,
	})
	if err != nil {
		MCPLogError("export_channel_csv url=%s: %v", url, err)
		return mcp.NewToolResultErrorFromErr("export failed", err), nil
	}
	MCPLogInfo("export_channel_csv url=%s wrote %d rows", url, stats.Written)

	return mcp.NewToolResultText(BuildReport(stats)), nil
}

// FormatVideoList renders videos as one "id<TAB>title" line each
func FormatVideoList(videos []VideoRecord) string {
	var sb strings.Builder
	for _, v := range videos {
		fmt.Fprintf(&sb, "%s\t%s\n", v.ID, v.Title)
	}
	return sb.String()
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		MCPLogInfo("starting HTTP transport on %s", addr)
		return httpServer.Start(addr)
	}

	MCPLogInfo("starting stdio transport")
	protocol, restore := divertStdout()
	defer restore()
	return server.NewStdioServer(s.mcpServer).Listen(ctx, os.Stdin, protocol)
}

// divertStdout points os.Stdout at stderr and returns the original stream for
// the protocol. The caption library prints retry notices with fmt.Printf,
// which would otherwise land in the middle of JSON-RPC frames.
func divertStdout() (*os.File, func()) {
	stdout := os.Stdout
	os.Stdout = os.Stderr
	return stdout, func() { os.Stdout = stdout }
}
