// Package topics partitions text records into keyword-defined topic subsets.
package topics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeywordConfig maps language -> category -> phrases, e.g. {"EN": {"delays": ["delay"]}}.
type KeywordConfig map[string]map[string][]string

// LoadKeywords reads a keyword configuration from a JSON or YAML file.
func LoadKeywords(path string) (KeywordConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords %s: %w", path, err)
	}

	var cfg KeywordConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &cfg)
	default:
		err = yaml.Unmarshal(raw, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse keywords %s: %w", path, err)
	}

	return cfg, nil
}

// Phrases collects the phrases of a category across every language,
// deduplicated and sorted. Blank phrases are dropped.
func (c KeywordConfig) Phrases(category string) []string {
	seen := map[string]struct{}{}
	for _, categories := range c {
		for _, phrase := range categories[category] {
			phrase = strings.TrimSpace(phrase)
			if phrase == "" {
				continue
			}
			seen[phrase] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for phrase := range seen {
		out = append(out, phrase)
	}
	sort.Strings(out)
	return out
}

// Language returns the categories of one language, or nil.
func (c KeywordConfig) Language(lang string) map[string][]string {
	if categories, ok := c[lang]; ok {
		return categories
	}
	return c[strings.ToUpper(lang)]
}
