// Package seedfile loads a yaml file of bookmarks to pre-populate a user's
// collection, e.g. a browser export converted once by hand.
package seedfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the seed yaml.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the seed file.
func (l *Loader) Load() (Seed, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	return seed, nil
}
