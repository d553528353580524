// Package fetch downloads release metadata and archives and unpacks them.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/creachadair/atomicfile"

	"github.com/CodexForgeBR/patchops/internal/logging"
	"github.com/CodexForgeBR/patchops/internal/patcherr"
)

// DefaultUserAgent identifies requests to release APIs.
const DefaultUserAgent = "PatchOpsIII"

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.Code)
}

func (e *StatusError) Unwrap() error {
	return patcherr.ErrRemote
}

// RequestError is a transport failure before a response was read in full.
type RequestError struct {
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() []error {
	return []error{patcherr.ErrRemote, e.Err}
}

// Client performs GET requests with retry.
type Client struct {
	HTTP      *http.Client
	Retry     RetryConfig
	UserAgent string
	Log       *logging.Logger
}

// NewClient returns a Client with the given per-request timeout and number
// of retries.
func NewClient(timeout time.Duration, retries int, log *logging.Logger) *Client {
	if log == nil {
		log = logging.Discard()
	}
	c := &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: DefaultUserAgent,
		Log:       log,
	}
	c.Retry = RetryConfig{
		MaxRetries: retries,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			c.Log.Warn(fmt.Sprintf("%v; retrying in %s (attempt %d/%d)", err, delay, attempt+1, retries))
		},
	}
	return c
}

// GetJSON fetches url and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	return RetryWithBackoff(ctx, c.Retry, func() error {
		body, err := c.get(ctx, url)
		if err != nil {
			return err
		}
		defer body.Close()

		if err := json.NewDecoder(body).Decode(v); err != nil {
			return patcherr.Malformed("decode %s: %v", url, err)
		}
		return nil
	})
}

// Download streams url into dest. The file only appears once the body has
// been read in full. It returns the SHA-256 of the downloaded file.
func (c *Client) Download(ctx context.Context, url, dest string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", patcherr.IO("create dir", filepath.Dir(dest), err)
	}

	err := RetryWithBackoff(ctx, c.Retry, func() error {
		body, err := c.get(ctx, url)
		if err != nil {
			return err
		}
		defer body.Close()

		out, err := atomicfile.New(dest, 0644)
		if err != nil {
			return patcherr.IO("create", dest, err)
		}
		defer out.Cancel()

		if _, err := io.Copy(out, body); err != nil {
			return &RequestError{URL: url, Err: err}
		}
		if err := out.Close(); err != nil {
			return patcherr.IO("replace", dest, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	sum, err := HashFile(dest)
	if err != nil {
		return "", patcherr.IO("hash", dest, err)
	}
	c.Log.Debug(fmt.Sprintf("Downloaded %s (sha256 %s)", filepath.Base(dest), sum))
	return sum, nil
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, patcherr.Remote("build request for %s: %v", url, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &RequestError{URL: url, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	return resp.Body, nil
}
