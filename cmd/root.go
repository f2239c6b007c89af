package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtzll/chanscribe/internal"
)

var (
	config     *internal.Config
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chanscribe [channel URL]",
	Short: "Export every video of a YouTube channel with its transcript to CSV",
	Long: `chanscribe lists all videos of a YouTube channel and writes each video's
title, description and transcript as one row of a CSV file.

Videos are listed with yt-dlp by default, which needs no API key.
With --source=api the channel is resolved and listed through the
YouTube Data API v3 instead, which requires an API key.

Rows are written as soon as each transcript is fetched, so an
interrupted run keeps everything exported up to that point.`,
	Example: `  # Export a channel to VidsTranscript.csv
  chanscribe "https://www.youtube.com/@RichAndLegit"

  # Write somewhere else and only take the latest 20 videos
  chanscribe @RichAndLegit -o richandlegit.csv --max-videos 20

  # Use the YouTube Data API (reads YOUTUBE_API_KEY)
  chanscribe @RichAndLegit --source api

  # Fetch subtitles with yt-dlp instead of the caption library
  chanscribe @RichAndLegit --transcripts subtitles --lang en,de`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args)
	},
	SilenceUsage: true,
}

// loadConfig reads configuration and applies the global flags on top
func loadConfig(cmd *cobra.Command) error {
	var err error
	config, err = internal.InitConfig(configFile)
	if err != nil {
		return err
	}

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		return fmt.Errorf("creating XDG directories: %w", err)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	return internal.HandleVerboseFlag(cmd, config)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		if _, ok := <-sigCh; !ok {
			return
		}
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal. Finishing the current video and shutting down...")

		// Cancel the main context to signal all operations to stop
		cancel()

		// Remove staged subtitle files, bounded so a hung filesystem can't block exit
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cleanupCancel()

		cleanupDone := make(chan struct{})
		go func() {
			if config != nil {
				if err := internal.CleanupTempDir(config.SubtitlesDir); err != nil {
					fmt.Fprintf(os.Stderr, "Error cleaning up temporary files: %v\n", err)
				}
			}
			close(cleanupDone)
		}()

		select {
		case <-cleanupDone:
		case <-cleanupCtx.Done():
			fmt.Fprintln(os.Stderr, "Warning: Cleanup timed out")
		}

		// A second signal forces exit
		<-sigCh
		os.Exit(130)
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddExportFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print errors")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is $XDG_CONFIG_HOME/chanscribe/config.toml)")
}
