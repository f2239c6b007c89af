package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/chanscribe/internal"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [channel URL]",
	Short: "List a channel's videos as id<TAB>title lines",
	Example: `  # List with yt-dlp
  chanscribe list "https://www.youtube.com/@RichAndLegit"

  # List through the Data API (titles are left empty)
  chanscribe list @RichAndLegit --source api

  # Only the IDs
  chanscribe list @RichAndLegit | cut -f1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ApplyFlags(cmd, config); err != nil {
			return err
		}
		if config.Source == internal.SourceAPI {
			if err := internal.ResolveAPIKey(config); err != nil {
				return err
			}
		}

		app := internal.NewApp(config)
		videos, err := app.ListChannelVideos(cmd.Context(), args[0], config.Source)
		if err != nil {
			return err
		}

		fmt.Print(internal.FormatVideoList(videos))
		return nil
	},
}

func init() {
	internal.AddSourceFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}
