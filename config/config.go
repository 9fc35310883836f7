package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Rippanteq7/whatsmeow-node/logging"
)

// EnvVar names the environment variable holding the path of an optional
// bootstrap config file.
const EnvVar = "WMNODE_CONFIG"

// DefaultStreamBuffer is the per-stream event queue capacity used when
// no config overrides it.
const DefaultStreamBuffer = 128

// Config is the bootstrap configuration. Everything in it has a working
// default; the file only exists so deployments can tune log noise and
// stream buffering without touching the host.
type Config struct {
	Logging logging.Options `yaml:"logging"`
	Stream  struct {
		Buffer int `yaml:"buffer"`
	} `yaml:"stream"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.Stream.Buffer = DefaultStreamBuffer
	return cfg
}

// Load reads the file named by EnvVar. An unset variable yields the
// defaults. A set but unreadable or malformed file is an error; callers
// fall back to defaults and report it.
func Load() (Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if cfg.Stream.Buffer <= 0 {
		cfg.Stream.Buffer = DefaultStreamBuffer
	}
	return cfg, nil
}
