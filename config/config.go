// Package config reads animation configuration fragments from YAML files
// and watches them for changes.
package config

import (
	"fmt"
	"os"

	"github.com/milk9111/scrollanim/anim"
	"gopkg.in/yaml.v3"
)

// Load reads a fragment from a YAML file. Keys missing from the file stay
// absent in the fragment.
func Load(path string) (anim.ConfigFragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return anim.ConfigFragment{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	frag, err := Parse(data)
	if err != nil {
		return anim.ConfigFragment{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return frag, nil
}

// Parse decodes a fragment. An empty document is an empty fragment.
func Parse(data []byte) (anim.ConfigFragment, error) {
	var frag anim.ConfigFragment
	if err := yaml.Unmarshal(data, &frag); err != nil {
		return anim.ConfigFragment{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return frag, nil
}
