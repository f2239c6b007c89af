package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/chanscribe/internal"
)

// metadataCmd represents the metadata command
var metadataCmd = &cobra.Command{
	Use:   "metadata [YouTube URL or ID]",
	Short: "Get metadata of a single video as JSON",
	Example: `  # Check title and caption availability before exporting
  chanscribe metadata tAP1eZYEuKA --pretty

  # Save metadata to file
  chanscribe metadata "https://youtu.be/tAP1eZYEuKA" -o metadata.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := internal.NewApp(config)
		metadata, err := app.VideoMetadata(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		var jsonData []byte
		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			jsonData, err = json.MarshalIndent(metadata, "", "  ")
		} else {
			jsonData, err = json.Marshal(metadata)
		}
		if err != nil {
			return fmt.Errorf("converting metadata to JSON: %w", err)
		}

		if outputFile, _ := cmd.Flags().GetString("output"); outputFile != "" {
			return os.WriteFile(outputFile, jsonData, 0644)
		}

		fmt.Println(string(jsonData))
		return nil
	},
}

func init() {
	metadataCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	metadataCmd.Flags().Bool("pretty", false, "Format output as pretty JSON")
	rootCmd.AddCommand(metadataCmd)
}
