package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/chanscribe/internal"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [channel URL]",
	Short: "Export a channel's videos and transcripts to CSV",
	Example: `  # Same as running chanscribe without a subcommand
  chanscribe export "https://www.youtube.com/@RichAndLegit" -o out.csv

  # Use the channel_url from config.toml
  chanscribe export`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args)
	},
}

// runExport is shared by the root and export commands
func runExport(cmd *cobra.Command, args []string) error {
	if err := internal.ApplyFlags(cmd, config); err != nil {
		return err
	}

	channelURL := config.ChannelURL
	if len(args) > 0 {
		channelURL = args[0]
	}
	if channelURL == "" {
		return errors.New("no channel URL given - pass one as argument or set channel_url in config.toml")
	}

	if config.Source == internal.SourceAPI {
		if err := internal.ResolveAPIKey(config); err != nil {
			return err
		}
	}

	app := internal.NewApp(config)
	stats, err := app.ExportChannel(cmd.Context(), internal.ExportOptions{
		ChannelURL: channelURL,
		OutputPath: config.Output,
	})
	if err != nil {
		return exportError(app.UI(), stats, err)
	}

	if !config.Quiet {
		report, err := internal.RenderReport(stats)
		if err != nil {
			app.UI().Warnf("%v", err)
			report = internal.BuildReport(stats)
		}
		fmt.Println(report)
	}

	return nil
}

// exportError explains how far a failed export got
func exportError(ui internal.UIManager, stats *internal.ExportStats, err error) error {
	if internal.IsFatal(err) {
		return fmt.Errorf("nothing exported: %w", err)
	}
	if stats != nil && stats.Written > 0 {
		ui.Warnf("stopped after %d of %d videos; rows so far are in %s", stats.Written, stats.Listed, stats.OutputPath)
	}
	return err
}

func init() {
	internal.AddExportFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}
