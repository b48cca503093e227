package httpclient

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    string
		path    string
		want    string
		wantErr string
	}{
		{name: "trailing slash", base: "https://gigachat.devices.sberbank.ru/api/v1/", path: "models", want: "https://gigachat.devices.sberbank.ru/api/v1/models"},
		{name: "no trailing slash", base: "https://ngw.devices.sberbank.ru:9443/api/v2", path: "oauth", want: "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"},
		{name: "leading slash path", base: "http://127.0.0.1:8080", path: "/chat/completions", want: "http://127.0.0.1:8080/chat/completions"},
		{name: "empty base", base: "", path: "models", wantErr: "api base url is required"},
		{name: "empty path", base: "https://example.com", path: "", wantErr: "api path is required"},
		{name: "bad scheme", base: "ftp://example.com", path: "models", wantErr: "must use http or https"},
		{name: "no host", base: "https://", path: "models", wantErr: "host is required"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := JoinURL(tc.base, tc.path)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewAppliesOptions(t *testing.T) {
	client, err := New(WithTimeout(5*time.Second), WithInsecureSkipVerify(true))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, client.Timeout)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
}

func TestNewRejectsCAFileWithoutCertificates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

	_, err := New(WithCAFile(path))
	assert.ErrorContains(t, err, "contains no certificates")

	_, err = New(WithCAFile(filepath.Join(t.TempDir(), "missing.pem")))
	assert.ErrorContains(t, err, "read ca file")
}

func TestNewKeepsCustomTransport(t *testing.T) {
	rt := http.DefaultTransport
	client, err := New(WithTransport(rt))
	require.NoError(t, err)
	assert.Same(t, rt, client.Transport)
}
