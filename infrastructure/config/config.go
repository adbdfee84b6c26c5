// Package config loads run settings from an optional .env file, the environment and CLI flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys understood by Load. Each is read from the upper-case environment variable of the same name.
const (
	KeyBaseURL        = "base_url"
	KeyAPIBaseURL     = "api_base_url"
	KeyAPIToken       = "api_token"
	KeyDataFolder     = "data_folder"
	KeyDownloadFolder = "download_folder"
	KeyUser           = "op_user"
	KeyHeadless       = "headless"
	KeySlowMoMs       = "slow_mo_ms"
	KeyStateDir       = "state_dir"
	KeyEnsureTimeout  = "ensure_timeout"
	KeyPollInterval   = "poll_interval"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyLogFile        = "log_file"
)

// Config is everything a scenario run needs from its environment
type Config struct {
	BaseURL        string
	APIBaseURL     string
	APIToken       string
	DataFolder     string
	DownloadFolder string
	User           string
	Headless       bool
	SlowMo         time.Duration
	StateDir       string
	EnsureTimeout  time.Duration
	PollInterval   time.Duration
	LogLevel       string
	LogFormat      string
	LogFile        string
}

// SetDefaults registers the default of every key on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, "http://localhost:3000")
	v.SetDefault(KeyAPIBaseURL, "")
	v.SetDefault(KeyAPIToken, "")
	v.SetDefault(KeyDataFolder, "./data")
	v.SetDefault(KeyDownloadFolder, "./downloads")
	v.SetDefault(KeyUser, "")
	v.SetDefault(KeyHeadless, true)
	v.SetDefault(KeySlowMoMs, 0)
	v.SetDefault(KeyStateDir, "")
	v.SetDefault(KeyEnsureTimeout, 5*time.Second)
	v.SetDefault(KeyPollInterval, 100*time.Millisecond)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")
}

// Load reads envFile when it exists, then resolves every key through v.
// Flags bound to v before the call take precedence over the environment.
func Load(v *viper.Viper, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := Config{
		BaseURL:        strings.TrimRight(v.GetString(KeyBaseURL), "/"),
		APIBaseURL:     strings.TrimRight(v.GetString(KeyAPIBaseURL), "/"),
		APIToken:       v.GetString(KeyAPIToken),
		DataFolder:     v.GetString(KeyDataFolder),
		DownloadFolder: v.GetString(KeyDownloadFolder),
		User:           v.GetString(KeyUser),
		Headless:       v.GetBool(KeyHeadless),
		SlowMo:         time.Duration(v.GetInt(KeySlowMoMs)) * time.Millisecond,
		StateDir:       v.GetString(KeyStateDir),
		EnsureTimeout:  v.GetDuration(KeyEnsureTimeout),
		PollInterval:   v.GetDuration(KeyPollInterval),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
		LogFile:        v.GetString(KeyLogFile),
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = cfg.BaseURL
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no run could work with
func (c Config) Validate() error {
	var problems []string
	if c.BaseURL == "" {
		problems = append(problems, "BASE_URL is empty")
	}
	if c.DataFolder == "" {
		problems = append(problems, "DATA_FOLDER is empty")
	}
	if c.DownloadFolder == "" {
		problems = append(problems, "DOWNLOAD_FOLDER is empty")
	}
	if c.EnsureTimeout <= 0 {
		problems = append(problems, "ENSURE_TIMEOUT must be positive")
	}
	if c.PollInterval <= 0 {
		problems = append(problems, "POLL_INTERVAL must be positive")
	}
	if c.SlowMo < 0 {
		problems = append(problems, "SLOW_MO_MS must not be negative")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT %q is not text or json", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
