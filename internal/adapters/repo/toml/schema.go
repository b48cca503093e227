package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Profiles []profileSchema `toml:"profiles"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported profiles schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type profileSchema struct {
	ID              string           `toml:"id"`
	Name            string           `toml:"name"`
	APIBaseURL      string           `toml:"api_base_url,omitempty"`
	OAuthBaseURL    string           `toml:"oauth_base_url,omitempty"`
	Scope           string           `toml:"scope,omitempty"`
	ClientSecretRef string           `toml:"client_secret_ref,omitempty"`
	SystemPrompt    string           `toml:"system_prompt,omitempty"`
	StripChars      *string          `toml:"strip_chars,omitempty"`
	Generation      generationSchema `toml:"generation"`
}

// Unset generation keys fall back to the library defaults, so the pointer
// fields keep an explicit zero apart from a missing key.
type generationSchema struct {
	Model             string   `toml:"model,omitempty"`
	Temperature       *float64 `toml:"temperature,omitempty"`
	TopP              *float64 `toml:"top_p,omitempty"`
	RepetitionPenalty *float64 `toml:"repetition_penalty,omitempty"`
	MaxTokens         int      `toml:"max_tokens,omitempty"`
	N                 int      `toml:"n,omitempty"`
	Stream            bool     `toml:"stream"`
	UpdateInterval    string   `toml:"update_interval,omitempty"`
}
