package cutconf

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// EnvConfig names the environment variable holding a default config file path.
const EnvConfig = "CUTR_CONFIG"

// Settings are the options that can come from flags or from a config file.
// A zero value means "not set".
type Settings struct {
	Delimiter       string `yaml:"delimiter" toml:"delimiter"`
	OutputDelimiter string `yaml:"output_delimiter" toml:"output_delimiter"`
	Jobs            int    `yaml:"jobs" toml:"jobs"`
	Verbose         bool   `yaml:"verbose" toml:"verbose"`
}

// DefaultSettings fills whatever neither flags nor the config file set.
func DefaultSettings() Settings {
	return Settings{
		Delimiter: "\t",
		Jobs:      1,
	}
}

// ConfigPath returns the config file to load: the flag value when given,
// otherwise $CUTR_CONFIG. An empty result means no config file.
func ConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvConfig)
}

// LoadFile reads settings from a YAML (.yml, .yaml) or TOML (.toml) file.
func LoadFile(path string) (Settings, error) {
	var s Settings

	data, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrap(err, "cannot read config")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		err = toml.Unmarshal(data, &s)
	default:
		return s, errors.Errorf("config %s: unsupported format %q, use .yaml, .yml or .toml", path, ext)
	}
	if err != nil {
		return Settings{}, errors.Wrapf(err, "cannot parse config %s", path)
	}

	return s, nil
}
