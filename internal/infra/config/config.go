package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultPath = "config.yaml"

type Config struct {
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	Cookies  CookieConfig   `mapstructure:"cookies" yaml:"cookies"`
	Engine   EngineConfig   `mapstructure:"engine" yaml:"engine"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`

	Port string `mapstructure:"port" yaml:"port"`
}

type DownloadConfig struct {
	OutDir        string        `mapstructure:"out_dir" yaml:"out_dir"`
	Quality       string        `mapstructure:"quality" yaml:"quality"`
	AudioFormat   string        `mapstructure:"audio_format" yaml:"audio_format"`
	Fragments     int           `mapstructure:"fragments" yaml:"fragments"`
	Parallel      int           `mapstructure:"parallel" yaml:"parallel"`
	Subtitles     bool          `mapstructure:"subtitles" yaml:"subtitles"`
	SubtitleLang  string        `mapstructure:"subtitle_lang" yaml:"subtitle_lang"`
	PlaylistStart int           `mapstructure:"playlist_start" yaml:"playlist_start"`
	PlaylistEnd   int           `mapstructure:"playlist_end" yaml:"playlist_end"`
	RetryUnit     time.Duration `mapstructure:"retry_unit" yaml:"retry_unit"`
	MaxAttempts   int           `mapstructure:"max_attempts" yaml:"max_attempts"`
}

// CookieConfig selects the cookie source. Value is a file path or a browser name.
type CookieConfig struct {
	Mode  string `mapstructure:"mode" yaml:"mode"`
	Value string `mapstructure:"value" yaml:"value"`
}

type EngineConfig struct {
	// UseAria2c enables aria2c when it is found on the host
	UseAria2c bool `mapstructure:"use_aria2c" yaml:"use_aria2c"`
	// UseNode passes node as the JS runtime when it is found on the host
	UseNode bool `mapstructure:"use_node" yaml:"use_node"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type StoreConfig struct {
	// Driver is "sqlite", "postgres" or "none"
	Driver      string `mapstructure:"driver" yaml:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

// Load reads path, then GOTUBE_ environment overrides. A missing file is
// only an error when the path was given explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	v := viper.New()

	// Set Defaults
	v.SetDefault("port", "8080")
	v.SetDefault("download.out_dir", "./downloads")
	v.SetDefault("download.quality", "1080p")
	v.SetDefault("download.audio_format", "mp3")
	v.SetDefault("download.fragments", 4)
	v.SetDefault("download.parallel", 1)
	v.SetDefault("download.subtitles", false)
	v.SetDefault("download.subtitle_lang", "fr")
	v.SetDefault("download.playlist_start", 0)
	v.SetDefault("download.playlist_end", 0)
	v.SetDefault("download.retry_unit", time.Second)
	v.SetDefault("download.max_attempts", 3)
	v.SetDefault("cookies.mode", "")
	v.SetDefault("cookies.value", "")
	v.SetDefault("engine.use_aria2c", true)
	v.SetDefault("engine.use_node", true)
	v.SetDefault("log.path", "gotube.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", true)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "gotube.db")
	v.SetDefault("store.postgres_dsn", "")

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Support Environment Variables
	v.SetEnvPrefix("GOTUBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Download.OutDir == "" {
		c.Download.OutDir = "./downloads"
	}

	c.Download.Parallel = clamp(c.Download.Parallel, 1, 10)
	c.Download.Fragments = clamp(c.Download.Fragments, 1, 16)

	if c.Download.MaxAttempts <= 0 {
		c.Download.MaxAttempts = 3
	}
	if c.Download.RetryUnit <= 0 {
		c.Download.RetryUnit = time.Second
	}

	if c.Download.PlaylistStart < 0 || c.Download.PlaylistEnd < 0 {
		return errors.New("playlist range must not be negative")
	}
	if c.Download.PlaylistStart > 0 && c.Download.PlaylistEnd > 0 && c.Download.PlaylistStart > c.Download.PlaylistEnd {
		return fmt.Errorf("playlist_start (%d) is after playlist_end (%d)", c.Download.PlaylistStart, c.Download.PlaylistEnd)
	}

	c.Cookies.Mode = strings.ToLower(strings.TrimSpace(c.Cookies.Mode))
	switch c.Cookies.Mode {
	case "", "none":
		c.Cookies.Mode = ""
	case "file", "browser":
	default:
		return fmt.Errorf("unknown cookie mode %q (expected file or browser)", c.Cookies.Mode)
	}

	c.Store.Driver = strings.ToLower(c.Store.Driver)
	switch c.Store.Driver {
	case "sqlite", "none":
	case "postgres":
		if c.Store.PostgresDSN == "" {
			return errors.New("store.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	return nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
