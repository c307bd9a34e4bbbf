package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		UIPort  int    `yaml:"ui_port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	API struct {
		BaseURL           string  `yaml:"base_url"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second"` // 0 disables limiting
		Burst             int     `yaml:"burst"`
		Token             string  `yaml:"token"`
		KeyringAccount    string  `yaml:"keyring_account"`
	} `yaml:"api"`

	Cache struct {
		StaleSeconds int `yaml:"stale_seconds"`
		GCSeconds    int `yaml:"gc_seconds"`
		Retry        int `yaml:"retry"`
		RetryDelayMS int `yaml:"retry_delay_ms"`
	} `yaml:"cache"`

	Backend struct {
		Port   int    `yaml:"port"`
		DBFile string `yaml:"db_file"`
	} `yaml:"backend"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func Default() Config {
	var cfg Config
	cfg.App.UIPort = 38480
	cfg.App.DataDir = "."
	cfg.API.BaseURL = "http://127.0.0.1:8080"
	cfg.API.TimeoutSeconds = 15
	cfg.API.Burst = 1
	cfg.Cache.StaleSeconds = 300
	cfg.Cache.GCSeconds = 300
	cfg.Cache.Retry = 1
	cfg.Cache.RetryDelayMS = 1000
	cfg.Backend.Port = 8080
	cfg.Backend.DBFile = "jobtracker.db"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Load reads path over the defaults, so keys missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) StaleTime() time.Duration {
	return time.Duration(c.Cache.StaleSeconds) * time.Second
}

func (c Config) GCTime() time.Duration {
	return time.Duration(c.Cache.GCSeconds) * time.Second
}

func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.Cache.RetryDelayMS) * time.Millisecond
}

func (c Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
