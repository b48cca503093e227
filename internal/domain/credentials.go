package domain

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultAPIBaseURL   = "https://gigachat.devices.sberbank.ru/api/v1/"
	DefaultOAuthBaseURL = "https://ngw.devices.sberbank.ru:9443/api/v2/"
	DefaultScope        = "GIGACHAT_API_PERS"
)

type Credentials struct {
	APIBaseURL   string
	OAuthBaseURL string
	ClientSecret string
	Scope        string
}

func (c Credentials) Validate() error {
	if err := validateBaseURL("api base url", c.APIBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("oauth base url", c.OAuthBaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		return fmt.Errorf("client secret is required")
	}
	if strings.TrimSpace(c.Scope) == "" {
		return fmt.Errorf("scope is required")
	}

	return nil
}

func validateBaseURL(name, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%s is required", name)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", name)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", name)
	}

	return nil
}
