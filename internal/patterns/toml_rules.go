package patterns

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ruleFile is the on-disk shape of a TOML rule file:
//
//	[[rules]]
//	id = "company-logger"
//	category = "security"
//	language = "python"
//	title = "Raw print in service code"
//	severity = "low"
//	matcher = '(?m)^\s*print\('
//	description = "..."
//	recommendation = "..."
//	confidence = 0.7
type ruleFile struct {
	Rules []tomlRule `toml:"rules"`
}

type tomlRule struct {
	Rule
	Language string `toml:"language"`
}

// LoadRuleFiles reads TOML rule files and returns rules grouped by
// language, ready to layer over the built-in table. Rules without a
// language go into the general group.
func LoadRuleFiles(paths []string) (map[string][]Rule, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	grouped := make(map[string][]Rule)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
		}

		var rf ruleFile
		if err := toml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("failed to parse rule file %s: %w", path, err)
		}

		for _, r := range rf.Rules {
			language := r.Language
			if language == "" {
				language = GeneralLanguage
			}
			grouped[language] = append(grouped[language], r.Rule)
		}
	}
	return grouped, nil
}
