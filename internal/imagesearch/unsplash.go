// README: Unsplash-compatible photo search client.
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voyager/internal/retry"
)

const DefaultUnsplashURL = "https://api.unsplash.com"

type Unsplash struct {
	baseURL   string
	accessKey string
	client    *http.Client
	policy    retry.Policy
}

type UnsplashOption func(*Unsplash)

func WithHTTPClient(c *http.Client) UnsplashOption {
	return func(u *Unsplash) { u.client = c }
}

func WithRetryPolicy(p retry.Policy) UnsplashOption {
	return func(u *Unsplash) { u.policy = p }
}

func NewUnsplash(baseURL, accessKey string, opts ...UnsplashOption) *Unsplash {
	if baseURL == "" {
		baseURL = DefaultUnsplashURL
	}
	u := &Unsplash{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		client:    &http.Client{Timeout: 10 * time.Second},
		policy: retry.Policy{
			MaxAttempts:    2,
			AttemptTimeout: 8 * time.Second,
			InitialBackoff: 200 * time.Millisecond,
			MaxBackoff:     time.Second,
		},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type unsplashResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Search returns the first result's regular-size URL.
func (u *Unsplash) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	return retry.Do(ctx, u.policy, func(ctx context.Context) (string, error) {
		return u.search(ctx, query)
	}, nil)
}

func (u *Unsplash) search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("unsplash: build request: %w", err))
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("unsplash: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("%w: unsplash status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", err
		}
		return "", retry.Permanent(err)
	}

	var out unsplashResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", retry.Permanent(fmt.Errorf("unsplash: decode response: %w", err))
	}
	if len(out.Results) == 0 {
		return "", nil
	}
	return out.Results[0].URLs.Regular, nil
}
