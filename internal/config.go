package internal

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Video listing sources
const (
	SourceYtDlp = "ytdlp"
	SourceAPI   = "api"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	ChannelURL          string
	Output              string
	Source              string
	TranscriptBackend   string
	TranscriptLanguages []string
	RequestDelay        time.Duration
	PageDelay           time.Duration
	MaxVideos           int
	StrictHandle        bool
	YouTubeAPIKey       string
	Verbose             bool
	Quiet               bool
	MCPLogEnabled       bool

	// Fixed XDG paths (not configurable)
	ConfigDir    string
	DataDir      string
	CacheDir     string
	SubtitlesDir string
}

// Validate checks settings that have a fixed set of values
func (c *Config) Validate() error {
	switch c.Source {
	case SourceYtDlp, SourceAPI:
	default:
		return fmt.Errorf("unknown source %q (supported: %s, %s)", c.Source, SourceYtDlp, SourceAPI)
	}
	switch c.TranscriptBackend {
	case BackendCaptions, BackendSubtitles:
	default:
		return fmt.Errorf("unknown transcript backend %q (supported: %s, %s)", c.TranscriptBackend, BackendCaptions, BackendSubtitles)
	}
	if c.MaxVideos < 0 {
		return fmt.Errorf("max videos must not be negative, got %d", c.MaxVideos)
	}
	if c.RequestDelay < 0 || c.PageDelay < 0 {
		return errors.New("delays must not be negative")
	}
	return nil
}

//go:embed config.toml
var defaultFS embed.FS

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Fprintf(os.Stderr, "Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// InitConfig loads .env, then the config file, then environment variables.
// configFile overrides the XDG lookup when set.
func InitConfig(configFile string) (*Config, error) {
	// A missing .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Error reading .env file: %v\n", err)
	}

	configDir := filepath.Join(xdg.ConfigHome, "chanscribe")
	dataDir := filepath.Join(xdg.DataHome, "chanscribe")
	cacheDir := filepath.Join(xdg.CacheHome, "chanscribe")

	v := newViper(configDir, configFile)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			if configFile != "" {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := configFromViper(v)
	config.ConfigDir = configDir
	config.DataDir = dataDir
	config.CacheDir = cacheDir
	config.SubtitlesDir = filepath.Join(cacheDir, "subtitles")

	if config.Verbose && v.ConfigFileUsed() != "" {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config, nil
}

func newViper(configDir, configFile string) *viper.Viper {
	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("channel_url", "")
	v.SetDefault("output", "VidsTranscript.csv")
	v.SetDefault("source", SourceYtDlp)
	v.SetDefault("transcript_backend", BackendCaptions)
	v.SetDefault("transcript_languages", []string{"en"})
	v.SetDefault("request_delay", 300*time.Millisecond)
	v.SetDefault("page_delay", 200*time.Millisecond)
	v.SetDefault("max_videos", 0)
	v.SetDefault("strict_handle", false)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	// Environment variables
	v.SetEnvPrefix("CHANSCRIBE")
	v.AutomaticEnv()

	// The API key is also read from the conventional unprefixed variable
	_ = v.BindEnv("youtube_api_key", "CHANSCRIBE_YOUTUBE_API_KEY", "YOUTUBE_API_KEY")

	return v
}

func configFromViper(v *viper.Viper) *Config {
	return &Config{
		ChannelURL:          v.GetString("channel_url"),
		Output:              v.GetString("output"),
		Source:              strings.ToLower(v.GetString("source")),
		TranscriptBackend:   strings.ToLower(v.GetString("transcript_backend")),
		TranscriptLanguages: splitLanguages(v.GetStringSlice("transcript_languages")),
		RequestDelay:        v.GetDuration("request_delay"),
		PageDelay:           v.GetDuration("page_delay"),
		MaxVideos:           v.GetInt("max_videos"),
		StrictHandle:        v.GetBool("strict_handle"),
		YouTubeAPIKey:       v.GetString("youtube_api_key"),
		Verbose:             v.GetBool("verbose"),
		Quiet:               v.GetBool("quiet"),
		MCPLogEnabled:       v.GetBool("mcp_log"),
	}
}

// splitLanguages accepts both list values and comma separated strings
func splitLanguages(values []string) []string {
	var langs []string
	for _, value := range values {
		for lang := range strings.SplitSeq(value, ",") {
			if lang = strings.TrimSpace(lang); lang != "" {
				langs = append(langs, lang)
			}
		}
	}
	return langs
}
