package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/chanscribe/internal"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  chanscribe paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("Data directory: %s\n", config.DataDir)
		fmt.Printf("Cache directory: %s\n", config.CacheDir)
		fmt.Printf("Subtitles directory: %s\n", config.SubtitlesDir)
		fmt.Printf("MCP log: %s\n", internal.MCPLogPath())
		fmt.Printf("Default output: %s\n", config.Output)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
