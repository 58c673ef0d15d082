package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a lexicon overlay from a YAML (or JSON) file.
//
//	stopwords:
//	  de: [der, die, das]
//	substitutions:
//	  - {from: commence, to: start}
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	return cfg, nil
}

// Load returns the default Lexicon extended with the overlay at path. An
// empty path returns Default().
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return Default().Merge(cfg), nil
}
