package cmd

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config supplies defaults for the analyze subcommand's flags, read from an
// optional -c/--config YAML file. Flags explicitly passed on the command
// line always take precedence over these -- see Changed.
type Config struct {
	K         *uint    `yaml:"k"`
	Polarity  *uint    `yaml:"s"`
	Property  *string  `yaml:"p"`
	FaultRate *float64 `yaml:"f"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	return &c, nil
}
