// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for model HTTP requests.
	defaultRequestTimeout = 600 * time.Second
	// defaultListenAddr is the fallback bind address for the HTTP front end.
	defaultListenAddr = "127.0.0.1:8384"
	// defaultHostURL is the fallback Ollama endpoint.
	defaultHostURL = "http://localhost:11434"
)

// Config represents the top-level application configuration.
type Config struct {
	HostURL        string     `json:"hostUrl"`
	Model          string     `json:"model"`
	Listen         string     `json:"listen,omitempty"`
	Debug          bool       `json:"debug"`
	TimeoutSeconds int        `json:"timeout,omitempty"`
	LogFile        string     `json:"logFile,omitempty"`
	Parameters     Parameters `json:"parameters"`
	ConfigPath     string     `json:"-"`
}

// Parameters defines the generation parameters forwarded to the model host.
type Parameters struct {
	Temperature *float64 `json:"temperature,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	NumCtx      *int     `json:"num_ctx,omitempty"`
}

// RequestTimeout returns the timeout duration for model HTTP requests,
// falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ListenAddr returns the HTTP bind address, applying a default if not set.
func (c Config) ListenAddr() string {
	if addr := strings.TrimSpace(c.Listen); addr != "" {
		return addr
	}
	return defaultListenAddr
}

// Host returns the model host URL, applying a default if not set.
func (c Config) Host() string {
	if url := strings.TrimSpace(c.HostURL); url != "" {
		return strings.TrimRight(url, "/")
	}
	return defaultHostURL
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "valet.log"
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if strings.TrimSpace(config.Model) == "" {
			return Config{}, errors.New("config must name a model")
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
