package internal

import (
	"fmt"
	"os"
	"strings"
)

// BuildReport formats an export summary as markdown
func BuildReport(stats *ExportStats) string {
	var sb strings.Builder

	sb.WriteString("# Export summary\n\n")
	fmt.Fprintf(&sb, "- **Channel:** %s\n", stats.ChannelURL)
	if stats.ChannelID != "" {
		fmt.Fprintf(&sb, "- **Channel ID:** `%s`\n", stats.ChannelID)
	}
	fmt.Fprintf(&sb, "- **Source:** %s\n", stats.Source)
	fmt.Fprintf(&sb, "- **Output:** `%s`\n\n", stats.OutputPath)

	sb.WriteString("| Outcome | Videos |\n|---|---:|\n")
	fmt.Fprintf(&sb, "| Listed | %d |\n", stats.Listed)
	fmt.Fprintf(&sb, "| Rows written | %d |\n", stats.Written)
	fmt.Fprintf(&sb, "| Transcripts | %d |\n", stats.Transcripts)
	fmt.Fprintf(&sb, "| Disabled by uploader | %d |\n", stats.Disabled)
	fmt.Fprintf(&sb, "| Not found | %d |\n", stats.NotFound)
	fmt.Fprintf(&sb, "| Fetch errors | %d |\n", stats.Failed)
	if stats.DetailFailures > 0 {
		fmt.Fprintf(&sb, "| Detail lookups failed | %d |\n", stats.DetailFailures)
	}

	return sb.String()
}

// RenderReport renders the summary for the terminal, or returns plain
// markdown when stdout is redirected
func RenderReport(stats *ExportStats) (string, error) {
	report := BuildReport(stats)
	if !isTerminal(os.Stdout) {
		return report, nil
	}
	return RenderMarkdown(report)
}
