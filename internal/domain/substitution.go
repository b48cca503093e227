package domain

import "strings"

// Substitution replaces every occurrence of Placeholder in a prompt.
type Substitution struct {
	Placeholder string
	Replacement string
}

func ApplySubstitutions(text string, substitutions []Substitution) string {
	for _, sub := range substitutions {
		if sub.Placeholder == "" {
			continue
		}
		text = strings.ReplaceAll(text, sub.Placeholder, sub.Replacement)
	}

	return text
}
