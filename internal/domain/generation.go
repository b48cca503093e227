package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultModel             = "GigaChat:latest"
	DefaultTemperature       = 1.0
	DefaultTopP              = 0.47
	DefaultRepetitionPenalty = 1.07
	DefaultMaxTokens         = 1024
	DefaultCandidateCount    = 1
)

type GenerationConfig struct {
	Model             string
	Temperature       float64
	TopP              float64
	RepetitionPenalty float64
	MaxTokens         int
	N                 int
	Stream            bool
	UpdateInterval    time.Duration
}

func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Model:             DefaultModel,
		Temperature:       DefaultTemperature,
		TopP:              DefaultTopP,
		RepetitionPenalty: DefaultRepetitionPenalty,
		MaxTokens:         DefaultMaxTokens,
		N:                 DefaultCandidateCount,
	}
}

func (c GenerationConfig) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", c.Temperature)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("top_p %v out of range [0, 1]", c.TopP)
	}
	if c.RepetitionPenalty < 0 {
		return fmt.Errorf("repetition_penalty %v must not be negative", c.RepetitionPenalty)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.N < 1 || c.N > 4 {
		return fmt.Errorf("n %d out of range [1, 4]", c.N)
	}
	if c.UpdateInterval < 0 {
		return fmt.Errorf("update_interval must not be negative")
	}

	return nil
}
