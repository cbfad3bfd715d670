package connectors

import (
	"context"
	"fmt"
	"net/url"
)

// graphAPIVersion pins the Meta Graph API version shared by the Instagram,
// Facebook and Meta Ads connectors.
const graphAPIVersion = "v18.0"

// graphClient issues authenticated calls against the Meta Graph API.
type graphClient struct {
	*apiClient

	// baseURL overrides the Graph endpoint in tests.
	baseURL string
}

func newGraphClient(api *apiClient) *graphClient {
	return &graphClient{
		apiClient: api,
		baseURL:   "https://graph.facebook.com/" + graphAPIVersion,
	}
}

// graphGet performs a Graph GET on path with the access token attached.
func (g *graphClient) graphGet(ctx context.Context, path, token string, params url.Values, v any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", token)
	return g.getJSON(ctx, fmt.Sprintf("%s/%s", g.baseURL, path), params, nil, v)
}
