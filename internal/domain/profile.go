package domain

import (
	"fmt"
	"strings"
)

type ProfileID string

const DefaultProfileID ProfileID = "default"

// Profile is a named connection and generation setup. The client secret itself
// lives in the secret store; ClientSecretRef points to it.
type Profile struct {
	ID              ProfileID
	Name            string
	APIBaseURL      string
	OAuthBaseURL    string
	Scope           string
	ClientSecretRef string
	SystemPrompt    string
	StripChars      string
	Generation      GenerationConfig
}

func DefaultProfile() Profile {
	return Profile{
		ID:              DefaultProfileID,
		Name:            "GigaChat",
		APIBaseURL:      DefaultAPIBaseURL,
		OAuthBaseURL:    DefaultOAuthBaseURL,
		Scope:           DefaultScope,
		ClientSecretRef: ClientSecretRef(DefaultProfileID),
		StripChars:      DefaultStripChars,
		Generation:      DefaultGenerationConfig(),
	}
}

// ClientSecretRef is the conventional secret-store key for a profile secret.
func ClientSecretRef(id ProfileID) string {
	return fmt.Sprintf("gigachat/%s/client_secret", id)
}

func (p Profile) Validate() error {
	if strings.TrimSpace(string(p.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if err := validateBaseURL("api base url", p.APIBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("oauth base url", p.OAuthBaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(p.Scope) == "" {
		return fmt.Errorf("scope is required")
	}
	if err := p.Generation.Validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}

	return nil
}

func (p Profile) Credentials(clientSecret string) Credentials {
	return Credentials{
		APIBaseURL:   p.APIBaseURL,
		OAuthBaseURL: p.OAuthBaseURL,
		ClientSecret: clientSecret,
		Scope:        p.Scope,
	}
}
