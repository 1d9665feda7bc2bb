// Package registry resolves declared npm dependencies against the package
// registry: it parses the manifest, cleans version ranges and enriches each
// entry with the latest published version.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/codeviz-ai/codeviz/cache"
)

const defaultBaseURL = "https://registry.npmjs.org"

// Client looks up the latest published version of a package. Lookups never
// fail loudly: every error path degrades to "latest unknown" for that one
// package so a single bad lookup cannot sink the batch.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Manager
}

// NewClient creates a registry client. An empty baseURL selects the public
// npm registry; cacheManager may be nil to disable lookup caching.
func NewClient(baseURL string, cacheManager *cache.Manager) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cacheManager,
	}
}

type latestResponse struct {
	Version string `json:"version"`
}

// GetLatestVersion returns the latest published version of packageName and
// whether one is known. Network failures, non-success responses and
// malformed payloads all log and report absence.
func (c *Client) GetLatestVersion(ctx context.Context, packageName string) (string, bool) {
	if c.cache != nil {
		if version, found := c.cache.GetLatestVersion(packageName); found {
			return version, true
		}
	}

	endpoint := fmt.Sprintf("%s/%s/latest", c.baseURL, url.PathEscape(packageName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("Warning: could not build registry request for %s: %v", packageName, err)
		return "", false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Warning: registry lookup failed for %s: %v", packageName, err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Warning: registry lookup for %s returned status %d", packageName, resp.StatusCode)
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Warning: could not read registry response for %s: %v", packageName, err)
		return "", false
	}

	var latest latestResponse
	if err := json.Unmarshal(body, &latest); err != nil {
		log.Printf("Warning: malformed registry response for %s: %v", packageName, err)
		return "", false
	}
	if latest.Version == "" {
		return "", false
	}

	if c.cache != nil {
		if err := c.cache.SetLatestVersion(packageName, latest.Version); err != nil {
			log.Printf("Warning: could not cache registry lookup for %s: %v", packageName, err)
		}
	}
	return latest.Version, true
}
