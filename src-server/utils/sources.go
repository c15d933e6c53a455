package utils

import (
	"fmt"
	"net/url"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Source describes a single iCalendar feed subscription from the sources
// file.
type Source struct {
	// internal identifier; generated when the file leaves it empty
	ID string `yaml:"id"`
	// human-friendly label shown in the API
	Name string `yaml:"name"`
	// the feed endpoint
	URL string `yaml:"url"`
}

// LoadSources reads the yaml sources file and returns the normalized feed
// list: blank IDs get a generated one, names are cleaned up and every URL
// must parse.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadSources: can't read %s: %w", path, err)
	}

	var sources []Source
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("LoadSources: can't unmarshal %s: %w", path, err)
	}

	for i := range sources {
		if sources[i].URL == "" {
			return nil, fmt.Errorf("LoadSources: source #%d has no url", i)
		}
		if _, err := url.ParseRequestURI(sources[i].URL); err != nil {
			return nil, fmt.Errorf("LoadSources: source #%d has an invalid url: %w", i, err)
		}
		if sources[i].ID == "" {
			sources[i].ID = uuid.NewString()
		}
		if sources[i].Name == "" {
			sources[i].Name = sources[i].URL
		}
		sources[i].Name = CleanupString(sources[i].Name)
	}

	return sources, nil
}
