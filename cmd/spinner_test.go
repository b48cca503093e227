package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitModelShowsElapsedAfterThreshold(t *testing.T) {
	start := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	now := start
	m := newWaitModel("Waiting for GigaChat...", nil, func() time.Time { return now })

	assert.Contains(t, m.View(), "Waiting for GigaChat...")
	assert.NotContains(t, m.View(), "(0s)")

	now = start.Add(5 * time.Second)
	assert.Contains(t, m.View(), "(5s)")
}

func TestWaitModelQuitsWithWorkError(t *testing.T) {
	m := newWaitModel("Fetching models...", nil, time.Now)
	workErr := errors.New("boom")

	updated, cmd := m.Update(workFinishedMsg{err: workErr})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	final := updated.(waitModel)
	assert.ErrorIs(t, final.err, workErr)
	assert.Empty(t, final.View())
}

func TestWaitWithSpinnerRunsDirectlyOffTerminal(t *testing.T) {
	var out bytes.Buffer
	called := false

	err := waitWithSpinner(context.Background(), &out, "Fetching models...", func(context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, out.String())
}
