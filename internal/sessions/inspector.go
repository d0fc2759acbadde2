// Package sessions talks to the media server's session API and simulates
// concurrent playback load against it.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/mediabenchhq/harness/pkg/types"
)

const tokenHeader = "X-Media-Token"

// InspectorConfig holds the static configuration for the media-server API
// client.
type InspectorConfig struct {
	ServerURL string
	Token     string
}

// InspectorDependencies allow test overrides for the HTTP client and logging.
type InspectorDependencies struct {
	HTTPClient *retryablehttp.Client
	Logger     *logrus.Logger
}

// Inspector is the HTTP client for the media server's library and session
// endpoints. The server's internals are out of scope; only this contract is
// assumed.
type Inspector struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
}

func NewInspector(cfg InspectorConfig, deps InspectorDependencies) (*Inspector, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("media server URL is required")
	}
	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = retryablehttp.NewClient()
		httpClient.RetryMax = 2
		if deps.Logger != nil {
			httpClient.Logger = deps.Logger
		} else {
			httpClient.Logger = nil
		}
	}
	return &Inspector{
		baseURL: strings.TrimRight(cfg.ServerURL, "/"),
		token:   cfg.Token,
		http:    httpClient,
	}, nil
}

type searchResponse struct {
	Results []struct {
		Key       string `json:"key"`
		Title     string `json:"title"`
		StreamURL string `json:"stream_url"`
	} `json:"results"`
}

// StreamURL resolves the playable stream URL for a library title.
func (c *Inspector) StreamURL(ctx context.Context, title string) (string, error) {
	endpoint := fmt.Sprintf("%s/library/search?title=%s", c.baseURL, url.QueryEscape(title))
	var out searchResponse
	if err := c.get(ctx, endpoint, &out); err != nil {
		return "", err
	}
	for _, result := range out.Results {
		if result.StreamURL != "" {
			return result.StreamURL, nil
		}
	}
	return "", fmt.Errorf("media %q not found in library", title)
}

type sessionsResponse struct {
	Sessions []types.TranscodeSession `json:"sessions"`
}

// ActiveTranscodes lists the sessions the server is transcoding right now.
func (c *Inspector) ActiveTranscodes(ctx context.Context) ([]types.TranscodeSession, error) {
	var out sessionsResponse
	if err := c.get(ctx, c.baseURL+"/status/sessions", &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

func (c *Inspector) get(ctx context.Context, endpoint string, out any) error {
	req, err := retryablehttp.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", endpoint, err)
	}
	req = req.WithContext(ctx)
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %s", endpoint, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
