package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StyleSet holds the per-platform stylistic rules fed into the generation
// prompt. Built-in defaults can be overridden from a YAML file.
type StyleSet struct {
	rules map[string][]string
}

type styleFile struct {
	Platforms map[string]struct {
		Rules []string `yaml:"rules"`
	} `yaml:"platforms"`
}

func defaultRules() map[string][]string {
	return map[string][]string{
		"facebook": {
			"No hashtags unless they feel natural",
			"No emoji overload (1-2 max if any)",
		},
		"instagram": {
			"Write it as an image caption",
			"3-5 relevant hashtags at the end are fine",
			"Emoji are welcome but keep it tasteful",
		},
		"linkedin": {
			"Keep the tone professional but human",
			"No emoji",
			"At most 2-3 hashtags, at the very end",
		},
	}
}

func NewStyleSet() *StyleSet {
	return &StyleSet{rules: defaultRules()}
}

// LoadStyleSet reads per-platform rule overrides from a YAML file on top of
// the built-in defaults. Platforms absent from the file keep their defaults.
func LoadStyleSet(path string) (*StyleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read styles file: %w", err)
	}

	var parsed styleFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse styles file: %w", err)
	}

	set := NewStyleSet()
	for platform, override := range parsed.Platforms {
		if len(override.Rules) > 0 {
			set.rules[platform] = override.Rules
		}
	}

	return set, nil
}

// Rules returns the stylistic rules for a platform, or a generic fallback
// for platforms without a dedicated rule set.
func (s *StyleSet) Rules(platform string) []string {
	if rules, ok := s.rules[platform]; ok {
		return rules
	}
	return []string{
		"No hashtags unless they feel natural",
		"No emoji overload (1-2 max if any)",
	}
}
