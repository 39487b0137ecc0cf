package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by Validate when no Last.fm API key is set.
var ErrMissingAPIKey = errors.New("Last.fm API key not configured. Set lastfm.api_key in the config file or LASTFM_API_KEY in the environment")

// Config holds application configuration
type Config struct {
	// Last.fm API settings
	LastFM LastFMConfig

	// MusicBrainz API settings
	MusicBrainz MusicBrainzConfig

	// Recent-activity list settings
	Recent RecentConfig

	// Terminal browser settings
	Browse BrowseConfig

	// Local JSON endpoint settings
	Serve ServeConfig

	// Directory for the preference database
	// Default: ~/.local/share/libi
	DataDir string

	// Log level (debug, info, warn, error)
	LogLevel string
}

// LastFMConfig holds Last.fm specific configuration
type LastFMConfig struct {
	APIKey  string
	BaseURL string
}

// MusicBrainzConfig holds MusicBrainz specific configuration
type MusicBrainzConfig struct {
	UserAgent string
}

// RecentConfig controls how the recent-activity list is fetched and shown
type RecentConfig struct {
	Limit         int
	Mode          string // "play" or "artist"
	PageSize      int
	LookupTimeout time.Duration
	FetchTimeout  time.Duration
	Concurrency   int
	FetchRetries  int
}

// BrowseConfig controls the terminal browser
type BrowseConfig struct {
	RefreshInterval time.Duration
}

// ServeConfig controls the local JSON endpoint
type ServeConfig struct {
	Addr string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	return LoadDir(getConfigDir())
}

// LoadDir reads configuration from config.yaml in configDir, a .env file
// in the working directory or configDir, and the environment.
func LoadDir(configDir string) (*Config, error) {
	loadDotEnv(".env", filepath.Join(configDir, ".env"))

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("lastfm.base_url", "https://ws.audioscrobbler.com/2.0/")
	v.SetDefault("musicbrainz.user_agent", "libi/1.0 (https://github.com/aquafemi/libi)")
	v.SetDefault("recent.limit", 50)
	v.SetDefault("recent.mode", "play")
	v.SetDefault("recent.page_size", 10)
	v.SetDefault("recent.lookup_timeout", 10*time.Second)
	v.SetDefault("recent.fetch_timeout", 30*time.Second)
	v.SetDefault("recent.concurrency", 8)
	v.SetDefault("recent.fetch_retries", 2)
	v.SetDefault("browse.refresh_interval", time.Minute)
	v.SetDefault("serve.addr", "127.0.0.1:8787")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("log_level", "info")

	// Read config file (optional - don't fail if missing)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Read from environment variables, e.g. LIBI_RECENT_LIMIT
	v.SetEnvPrefix("LIBI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("lastfm.api_key", "LIBI_LASTFM_API_KEY", "LASTFM_API_KEY")

	// Map config to struct
	cfg := &Config{
		LastFM: LastFMConfig{
			APIKey:  v.GetString("lastfm.api_key"),
			BaseURL: v.GetString("lastfm.base_url"),
		},
		MusicBrainz: MusicBrainzConfig{
			UserAgent: v.GetString("musicbrainz.user_agent"),
		},
		Recent: RecentConfig{
			Limit:         v.GetInt("recent.limit"),
			Mode:          v.GetString("recent.mode"),
			PageSize:      v.GetInt("recent.page_size"),
			LookupTimeout: v.GetDuration("recent.lookup_timeout"),
			FetchTimeout:  v.GetDuration("recent.fetch_timeout"),
			Concurrency:   v.GetInt("recent.concurrency"),
			FetchRetries:  v.GetInt("recent.fetch_retries"),
		},
		Browse: BrowseConfig{
			RefreshInterval: v.GetDuration("browse.refresh_interval"),
		},
		Serve: ServeConfig{
			Addr: v.GetString("serve.addr"),
		},
		DataDir:  v.GetString("data_dir"),
		LogLevel: v.GetString("log_level"),
	}

	return cfg, nil
}

// Validate reports configuration that prevents talking to Last.fm.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LastFM.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// DBPath returns the preference database location
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "libi.db")
}

// loadDotEnv loads the .env files that exist. Variables already set in
// the environment win.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "libi")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "share", "libi")
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	return c.SaveDir(getConfigDir())
}

// SaveDir writes configuration to config.yaml in configDir
func (c *Config) SaveDir(configDir string) error {
	v := viper.New()

	// Set config file path
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("lastfm.api_key", c.LastFM.APIKey)
	v.Set("lastfm.base_url", c.LastFM.BaseURL)
	v.Set("musicbrainz.user_agent", c.MusicBrainz.UserAgent)
	v.Set("recent.limit", c.Recent.Limit)
	v.Set("recent.mode", c.Recent.Mode)
	v.Set("recent.page_size", c.Recent.PageSize)
	v.Set("recent.lookup_timeout", c.Recent.LookupTimeout.String())
	v.Set("recent.fetch_timeout", c.Recent.FetchTimeout.String())
	v.Set("recent.concurrency", c.Recent.Concurrency)
	v.Set("recent.fetch_retries", c.Recent.FetchRetries)
	v.Set("browse.refresh_interval", c.Browse.RefreshInterval.String())
	v.Set("serve.addr", c.Serve.Addr)
	v.Set("data_dir", c.DataDir)
	v.Set("log_level", c.LogLevel)

	// Write to file
	return v.WriteConfigAs(configFile)
}
