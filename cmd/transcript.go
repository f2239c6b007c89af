package cmd

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rtzll/chanscribe/internal"
)

// transcriptCmd prints, saves or copies the transcript of a single video
var transcriptCmd = &cobra.Command{
	Use:   "transcript [YouTube URL or ID]",
	Short: "Get the transcript of a single video",
	Example: `  # Print a transcript
  chanscribe transcript "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  chanscribe transcript tAP1eZYEuKA

  # Save transcript to file
  chanscribe transcript tAP1eZYEuKA -o transcript.txt

  # Copy transcript to the clipboard
  chanscribe transcript tAP1eZYEuKA --copy

  # Use yt-dlp subtitles in German
  chanscribe transcript tAP1eZYEuKA --transcripts subtitles --lang de`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ApplyFlags(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		transcript, err := app.VideoTranscript(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
			if err := clipboard.WriteAll(transcript); err != nil {
				return fmt.Errorf("copying transcript to clipboard: %w", err)
			}
			if !config.Quiet {
				fmt.Fprintln(os.Stderr, "Transcript copied to clipboard")
			}
			return nil
		}

		// Handle output flag
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(transcript), 0644)
		}

		fmt.Println(transcript)
		return nil
	},
}

func init() {
	transcriptCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	transcriptCmd.Flags().Bool("copy", false, "Copy the transcript to the clipboard instead of printing it")
	transcriptCmd.Flags().String("transcripts", "", "Transcript backend: captions or subtitles")
	transcriptCmd.Flags().StringSlice("lang", nil, "Transcript language (repeatable)")
	rootCmd.AddCommand(transcriptCmd)
}
