package resolver

import (
	"embed"
	"strconv"
	"strings"

	"github.com/Ravou/Neurograph/internal/schema"
	"gopkg.in/yaml.v3"
)

// severityFS embeds the severity lexicon at compile time so every binary
// maps severity words the same way.
//
//go:embed severity.yaml
var severityFS embed.FS

// severityLexicon maps normalized severity words onto levels, one table per
// severity label.
type severityLexicon struct {
	Urgency map[string]int `yaml:"urgency"`
	Impact  map[string]int `yaml:"impact"`
}

// loadSeverityLexicon parses the embedded lexicon.
func loadSeverityLexicon() (*severityLexicon, error) {
	data, err := severityFS.ReadFile("severity.yaml")
	if err != nil {
		return nil, err
	}

	var lexicon severityLexicon
	if err := yaml.Unmarshal(data, &lexicon); err != nil {
		return nil, err
	}

	return &lexicon, nil
}

// LevelFor maps a severity mention onto a level. Bare digits 1..4 pass
// through; everything else goes through the lexical table. The second return
// is false for words the table does not recognize.
func (l *severityLexicon) LevelFor(label schema.Label, text string) (int, bool) {
	normalized := normalizeSeverity(text)
	if normalized == "" {
		return 0, false
	}

	if level, err := strconv.Atoi(normalized); err == nil {
		if level >= 1 && level <= 4 {
			return level, true
		}
		return 0, false
	}

	var table map[string]int
	switch label {
	case schema.LabelUrgency:
		table = l.Urgency
	case schema.LabelImpact:
		table = l.Impact
	default:
		return 0, false
	}

	level, ok := table[normalized]
	return level, ok
}

// normalizeSeverity lowercases and collapses interior whitespace so phrase
// entries like "customers blocked" match regardless of spacing.
func normalizeSeverity(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
