// README: Google Places text search used as a photo source.
package imagesearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"googlemaps.github.io/maps"
)

const placePhotoURL = "https://maps.googleapis.com/maps/api/place/photo"

// Places resolves a query to the first matching place's first photo.
type Places struct {
	client   *maps.Client
	apiKey   string
	maxWidth int
}

// NewPlaces creates a Places searcher. Extra maps options (e.g. a base URL) are passed through.
func NewPlaces(apiKey string, opts ...maps.ClientOption) (*Places, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Places{client: client, apiKey: apiKey, maxWidth: 1080}, nil
}

func (p *Places) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	resp, err := p.client.TextSearch(ctx, &maps.TextSearchRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("%w: places text search: %v", ErrUpstream, err)
	}
	for _, result := range resp.Results {
		if len(result.Photos) == 0 || result.Photos[0].PhotoReference == "" {
			continue
		}
		return p.photoURL(result.Photos[0].PhotoReference), nil
	}
	return "", nil
}

func (p *Places) photoURL(ref string) string {
	v := url.Values{}
	v.Set("maxwidth", fmt.Sprint(p.maxWidth))
	v.Set("photo_reference", ref)
	v.Set("key", p.apiKey)
	return placePhotoURL + "?" + v.Encode()
}
