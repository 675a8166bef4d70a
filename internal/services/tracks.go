package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Lalka12235/TuneWave/internal/models"
)

// SearchTracks queries the backend's Spotify proxy for catalog tracks
// matching query. Authenticated: the proxy searches with the linked
// provider account.
func (c *Client) SearchTracks(ctx context.Context, query string) (*models.TrackSearchResult, error) {
	var result models.TrackSearchResult
	path := "/spotify/search/tracks?query=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, true, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
