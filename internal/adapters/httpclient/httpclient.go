// Package httpclient builds the *http.Client shared by the OAuth and API
// adapters and resolves endpoint URLs against configured base URLs.
package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

type Options struct {
	// Timeout bounds a whole request including reading the body. Zero leaves
	// streaming responses unbounded.
	Timeout             time.Duration
	InsecureSkipVerify  bool
	CAFile              string
	TLSHandshakeTimeout time.Duration
	IdleConnTimeout     time.Duration
	Transport           http.RoundTripper
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

func WithInsecureSkipVerify(skip bool) Option {
	return func(o *Options) { o.InsecureSkipVerify = skip }
}

func WithCAFile(path string) Option {
	return func(o *Options) { o.CAFile = path }
}

func WithTransport(rt http.RoundTripper) Option {
	return func(o *Options) { o.Transport = rt }
}

func DefaultOptions() Options {
	return Options{
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
	}
}

func New(opts ...Option) (*http.Client, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	transport := options.Transport
	if transport == nil {
		tlsConfig, err := tlsConfig(options)
		if err != nil {
			return nil, err
		}

		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:   true,
			TLSClientConfig:     tlsConfig,
			TLSHandshakeTimeout: options.TLSHandshakeTimeout,
			IdleConnTimeout:     options.IdleConnTimeout,
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   options.Timeout,
	}, nil
}

func tlsConfig(options Options) (*tls.Config, error) {
	config := &tls.Config{MinVersion: tls.VersionTLS12}
	if options.InsecureSkipVerify {
		config.InsecureSkipVerify = true
		return config, nil
	}
	if options.CAFile == "" {
		return config, nil
	}

	pem, err := os.ReadFile(options.CAFile)
	if err != nil {
		return nil, fmt.Errorf("read ca file: %w", err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("ca file %q contains no certificates", options.CAFile)
	}
	config.RootCAs = pool

	return config, nil
}

// JoinURL resolves path against baseURL, treating baseURL as a directory.
func JoinURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	endpoint, err := parsed.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
