package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/gigachat-cli/internal/domain"
)

// parseSubstitutions turns repeated key=value flags into ordered substitutions.
func parseSubstitutions(raw []string) ([]domain.Substitution, error) {
	substitutions := make([]domain.Substitution, 0, len(raw))
	for _, entry := range raw {
		placeholder, replacement, ok := strings.Cut(entry, "=")
		if !ok || placeholder == "" {
			return nil, fmt.Errorf("invalid substitution %q: expected key=value", entry)
		}
		substitutions = append(substitutions, domain.Substitution{
			Placeholder: placeholder,
			Replacement: replacement,
		})
	}

	return substitutions, nil
}
