// Package source fetches raw reading payloads from the upstream data feed or
// from a local file and hands them to the normalizer.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"bpdash/internal/reading"
)

// DefaultTimeout bounds a single upstream fetch.
const DefaultTimeout = 10 * time.Second

// FetchError distinguishes the ways a load can fail so the caller can report
// them separately: the network, the upstream status, or the payload shape.
type FetchError struct {
	Stage string // "request", "status", "decode", "read"
	URL   string
	Code  int
	Err   error
}

func (e *FetchError) Error() string {
	switch e.Stage {
	case "status":
		return fmt.Sprintf("upstream %s returned %d", e.URL, e.Code)
	case "decode":
		return fmt.Sprintf("decoding payload from %s: %v", e.URL, e.Err)
	case "read":
		return fmt.Sprintf("reading %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Loader pulls raw reading batches from a remote feed.
type Loader struct {
	client *resty.Client
	url    string
}

// NewLoader builds a loader for the given feed URL. A zero timeout falls back
// to DefaultTimeout.
func NewLoader(url string, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Loader{client: client, url: url}
}

// Fetch downloads and decodes the raw reading array. Individual malformed
// records survive decoding (the raw types are tolerant); only a payload that
// is not a JSON array fails.
func (l *Loader) Fetch(ctx context.Context) ([]reading.RawReading, error) {
	started := time.Now()
	resp, err := l.client.R().SetContext(ctx).Get(l.url)
	if err != nil {
		return nil, &FetchError{Stage: "request", URL: l.url, Err: err}
	}
	if resp.StatusCode() != 200 {
		return nil, &FetchError{Stage: "status", URL: l.url, Code: resp.StatusCode()}
	}

	var raw []reading.RawReading
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, &FetchError{Stage: "decode", URL: l.url, Err: err}
	}

	log.Info().
		Str("url", l.url).
		Int("records", len(raw)).
		Dur("elapsed", time.Since(started)).
		Msg("Fetched reading payload")
	return raw, nil
}

// ReadFile decodes a raw reading array from a local JSON file. Used by the
// offline subcommands and as a feed substitute in development.
func ReadFile(path string) ([]reading.RawReading, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FetchError{Stage: "read", URL: path, Err: err}
	}

	var raw []reading.RawReading
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &FetchError{Stage: "decode", URL: path, Err: err}
	}

	log.Info().Str("path", path).Int("records", len(raw)).Msg("Read reading payload from file")
	return raw, nil
}
