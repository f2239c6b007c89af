package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/chanscribe/internal"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve [channel URL]",
	Short: "Print the canonical channel ID for a channel URL",
	Example: `  # Resolve a handle (needs a YouTube Data API key)
  chanscribe resolve "https://www.youtube.com/@RichAndLegit"
  chanscribe resolve @RichAndLegit

  # Only accept an exact handle match
  chanscribe resolve @RichAndLegit --strict-handle`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ApplyFlags(cmd, config); err != nil {
			return err
		}
		if err := internal.ResolveAPIKey(config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		id, err := app.ResolveChannel(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(id)
		return nil
	},
}

func init() {
	resolveCmd.Flags().Bool("strict-handle", false, "Require an exact @handle match")
	rootCmd.AddCommand(resolveCmd)
}
