package transcript

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/gigachat-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	AssistantName  = "GigaChat"
	UserName       = "You"
	separatorWidth = 100
	// Access tokens are issued for thirty minutes.
	tokenLifetime = 30 * time.Minute
)

type ModelsOptions struct {
	Now   time.Time
	Token domain.Token
}

// TurnHeader formats the numbered speaker label used by the dialogue loop.
func TurnHeader(turn int, role domain.Role) string {
	name := UserName
	if role == domain.RoleAssistant {
		name = AssistantName
	}
	return fmt.Sprintf("%2d. %s:", turn, name)
}

func Separator() string {
	return strings.Repeat("_", separatorWidth)
}

func renderModelsView(models []domain.ModelDescriptor, opts ModelsOptions, s styles) string {
	lines := []string{
		s.title.Render("GigaChat models"),
		s.header.Render(fmt.Sprintf("models: %d", len(models))),
	}

	if len(models) == 0 {
		lines = append(lines, s.empty.Render("No models available."))
	} else {
		entries := make([]string, 0, len(models))
		for _, descriptor := range models {
			entries = append(entries, modelLine(descriptor, s))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, entries...)))
	}

	if token := tokenLine(opts.Token, opts.Now, s); token != "" {
		lines = append(lines, s.section.Render(token))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func modelLine(descriptor domain.ModelDescriptor, s styles) string {
	line := s.model.Render(descriptor.ID)
	if descriptor.OwnedBy != "" {
		line = lipgloss.JoinHorizontal(lipgloss.Top, line, " ", s.owner.Render("("+descriptor.OwnedBy+")"))
	}
	return line
}

func tokenLine(token domain.Token, now time.Time, s styles) string {
	if !token.Present() {
		return ""
	}
	if now.IsZero() || token.ExpiresAt.IsZero() {
		return s.detail.Render("token: acquired")
	}
	if !token.Usable(now) {
		return s.warning.Render("token: expired")
	}

	remaining := token.ExpiresIn(now)
	style := lipgloss.NewStyle().Foreground(interpolateColor(remaining.Seconds(), 0, tokenLifetime.Seconds()))
	return style.Render("token: " + formatExpiresRelative(token.ExpiresAt, now))
}

func formatExpiresRelative(expiresAt, now time.Time) string {
	remaining := expiresAt.Sub(now)
	if remaining < time.Hour {
		minutes := int(math.Ceil(remaining.Minutes()))
		if minutes < 1 {
			minutes = 1
		}
		suffix := "minutes"
		if minutes == 1 {
			suffix = "minute"
		}
		return fmt.Sprintf("expires in %d %s (%s)", minutes, suffix, expiresAt.Format("15:04"))
	}

	hours := int(math.Ceil(remaining.Hours()))
	suffix := "hours"
	if hours == 1 {
		suffix = "hour"
	}
	return fmt.Sprintf("expires in %d %s (%s)", hours, suffix, expiresAt.Format("15:04 on 02 Jan"))
}

func renderTranscriptView(messages []domain.Message, s styles) string {
	if len(messages) == 0 {
		return s.empty.Render("No messages yet.")
	}

	lines := make([]string, 0, len(messages)+2)
	turn := 0
	for _, message := range messages {
		switch message.Role {
		case domain.RoleSystem:
			lines = append(lines, s.system.Render("system: "+message.Content))
		case domain.RoleUser:
			turn++
			lines = append(lines, s.user.Render(TurnHeader(turn, domain.RoleUser))+" "+s.detail.Render(message.Content))
		case domain.RoleAssistant:
			lines = append(lines,
				s.assistant.Render(TurnHeader(turn, domain.RoleAssistant))+" "+s.detail.Render(message.Content),
				s.separator.Render(Separator()),
			)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// interpolateColor fades from grey (240) at min to bright white (255) at max.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	baseColor := 240.0
	targetColor := 255.0
	colorCode := int(baseColor + (targetColor-baseColor)*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}
