package ndex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cxtools/cxlayout/pkg/errors"
	"github.com/cxtools/cxlayout/pkg/httputil"
)

// maxErrorBody caps how much of an error response body is read when
// extracting the server message.
const maxErrorBody = 64 << 10

// Client is the set of NDEx operations the pipeline performs. Commands
// accept a Client so tests can substitute a double for the real server.
type Client interface {
	// DownloadNetwork fetches the network's CX document into destFile.
	DownloadNetwork(ctx context.Context, networkID, destFile string) error

	// UpdateNetwork replaces the network document with the CX file contents.
	UpdateNetwork(ctx context.Context, networkID, cxFile string) error

	// UpdateAspect replaces the named aspect of the network, leaving the
	// rest of the document untouched.
	UpdateAspect(ctx context.Context, networkID, aspectName string, aspect any) error
}

// HTTPClient talks to a real NDEx server over its v2 REST API with HTTP
// basic authentication.
type HTTPClient struct {
	http     *http.Client
	baseURL  string
	username string
	password string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the given server. The server may be a
// bare host ("public.ndexbio.org") or a full URL; a missing scheme defaults
// to https.
func NewHTTPClient(server, username, password string) *HTTPClient {
	base := strings.TrimRight(server, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &HTTPClient{
		http:     &http.Client{Timeout: 5 * time.Minute},
		baseURL:  base,
		username: username,
		password: password,
	}
}

func (c *HTTPClient) networkURL(networkID string) string {
	return fmt.Sprintf("%s/v2/network/%s", c.baseURL, networkID)
}

// DownloadNetwork implements [Client]. Each retry attempt truncates and
// rewrites destFile so a partial earlier attempt never survives.
func (c *HTTPClient) DownloadNetwork(ctx context.Context, networkID, destFile string) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		body, err := c.do(ctx, http.MethodGet, c.networkURL(networkID), nil, "")
		if err != nil {
			return err
		}
		defer body.Close()

		f, err := os.Create(destFile)
		if err != nil {
			return fmt.Errorf("create %s: %w", destFile, err)
		}
		defer f.Close()

		if _, err := io.Copy(f, body); err != nil {
			return fmt.Errorf("write %s: %w", destFile, err)
		}
		return nil
	})
}

// UpdateNetwork implements [Client].
func (c *HTTPClient) UpdateNetwork(ctx context.Context, networkID, cxFile string) error {
	return httputil.RetryWithBackoff(ctx, func() error {
		f, err := os.Open(cxFile)
		if err != nil {
			return fmt.Errorf("open %s: %w", cxFile, err)
		}
		defer f.Close()

		body, err := c.do(ctx, http.MethodPut, c.networkURL(networkID), f, "application/json")
		if err != nil {
			return err
		}
		return body.Close()
	})
}

// UpdateAspect implements [Client]. The aspect is sent as a minimal CX
// document containing only the named aspect fragment.
func (c *HTTPClient) UpdateAspect(ctx context.Context, networkID, aspectName string, aspect any) error {
	doc := []map[string]any{{aspectName: aspect}}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal aspect %s: %w", aspectName, err)
	}

	url := c.networkURL(networkID) + "/aspects"
	return httputil.RetryWithBackoff(ctx, func() error {
		body, err := c.do(ctx, http.MethodPut, url, bytes.NewReader(payload), "application/json")
		if err != nil {
			return err
		}
		return body.Close()
	})
}

// do performs one HTTP request and returns the response body on success.
// Transport failures carry NETWORK_ERROR and are retryable. Non-2xx responses
// become *ServerError; 5xx additionally marks the error retryable so the
// backoff wrapper attempts again.
func (c *HTTPClient) do(ctx context.Context, method, url string, reqBody io.Reader, contentType string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeNetwork, err, "request %s", url),
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.Body, nil
	}

	errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()

	serr := newServerError(resp.StatusCode, errBody)
	if resp.StatusCode >= 500 {
		return nil, &httputil.RetryableError{Err: serr}
	}
	return nil, serr
}
