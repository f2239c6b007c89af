package internal

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// AddExportFlags adds flags related to channel export
func AddExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "CSV output file (default from config: VidsTranscript.csv)")
	AddSourceFlags(cmd)
	cmd.Flags().Duration("delay", 0, "Minimum delay between videos (default from config: 300ms)")
	cmd.Flags().Int("max-videos", 0, "Export at most this many videos (0 for all)")
}

// AddSourceFlags adds flags selecting where videos and transcripts come from
func AddSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "s", "", "Video source: ytdlp or api")
	cmd.Flags().String("transcripts", "", "Transcript backend: captions or subtitles")
	cmd.Flags().StringSlice("lang", nil, "Transcript language (repeatable)")
	cmd.Flags().Duration("page-delay", 0, "Minimum delay between Data API pages (default from config: 200ms)")
	cmd.Flags().Bool("strict-handle", false, "Require an exact @handle match (api source)")
}

// ApplyFlags copies explicitly set flags over the loaded config
func ApplyFlags(cmd *cobra.Command, config *Config) error {
	flags := cmd.Flags()

	if f := flags.Lookup("output"); f != nil && f.Changed {
		config.Output = f.Value.String()
	}
	if f := flags.Lookup("source"); f != nil && f.Changed {
		config.Source = strings.ToLower(f.Value.String())
	}
	if f := flags.Lookup("transcripts"); f != nil && f.Changed {
		config.TranscriptBackend = strings.ToLower(f.Value.String())
	}
	if f := flags.Lookup("lang"); f != nil && f.Changed {
		langs, err := flags.GetStringSlice("lang")
		if err != nil {
			return fmt.Errorf("failed to get lang flag: %w", err)
		}
		config.TranscriptLanguages = splitLanguages(langs)
	}
	if f := flags.Lookup("delay"); f != nil && f.Changed {
		delay, err := flags.GetDuration("delay")
		if err != nil {
			return fmt.Errorf("failed to get delay flag: %w", err)
		}
		config.RequestDelay = delay
	}
	if f := flags.Lookup("page-delay"); f != nil && f.Changed {
		delay, err := flags.GetDuration("page-delay")
		if err != nil {
			return fmt.Errorf("failed to get page-delay flag: %w", err)
		}
		config.PageDelay = delay
	}
	if f := flags.Lookup("max-videos"); f != nil && f.Changed {
		maxVideos, err := flags.GetInt("max-videos")
		if err != nil {
			return fmt.Errorf("failed to get max-videos flag: %w", err)
		}
		config.MaxVideos = maxVideos
	}
	if f := flags.Lookup("strict-handle"); f != nil && f.Changed {
		strict, err := flags.GetBool("strict-handle")
		if err != nil {
			return fmt.Errorf("failed to get strict-handle flag: %w", err)
		}
		config.StrictHandle = strict
	}

	return config.Validate()
}

// HandleVerboseFlag processes the --verbose and --quiet flags to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	if f := cmd.Flags().Lookup("verbose"); f != nil && f.Changed {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		config.Verbose = verbose
	}
	if f := cmd.Flags().Lookup("quiet"); f != nil && f.Changed {
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		config.Quiet = quiet
	}
	if config.Quiet {
		config.Verbose = false
	}
	return nil
}

// ResolveAPIKey makes sure the Data API key is available, asking for it
// on an interactive terminal
func ResolveAPIKey(config *Config) error {
	if config.YouTubeAPIKey != "" {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ErrMissingAPIKey
	}

	key, err := AskSecret("Enter your YouTube Data API key")
	if err != nil {
		return err
	}
	if key == "" {
		return ErrMissingAPIKey
	}
	config.YouTubeAPIKey = key
	return nil
}
