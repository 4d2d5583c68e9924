package core

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LoadOptionsYAML reads a YAML options file, applying its fields on top of
// DefaultOptions, and validates the result (spec.md section 6/7).
func LoadOptionsYAML(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, NewConfigError("reading options file "+path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, NewConfigError("parsing options file "+path, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, NewConfigError("validating options", err)
	}
	return opts, nil
}
