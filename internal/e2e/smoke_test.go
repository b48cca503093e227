package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runGChat(t, binaryPath, home,
		"profile", "set", "work",
		"--name", "Work",
		"--model", "GigaChat-Pro",
		"--client-secret", "c2VjcmV0",
	)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runGChat(t, binaryPath, home, "profile", "show", "work")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "model: GigaChat-Pro")
	assert.Contains(t, stdout, "client_secret: set")

	stdout, stderr, err = runGChat(t, binaryPath, home, "version")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.NotEmpty(t, stdout)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "gchat-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/gchat")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build gchat binary: %s", string(output))
	return binaryPath
}

func runGChat(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"PATH="+t.TempDir(),
		"GIGACHAT_CLIENT_SECRET=",
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
