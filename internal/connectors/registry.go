package connectors

import (
	"net/http"
	"sort"
)

// Registry is a pure mapping from platform tag to Connector. An unknown
// platform is not an error here; the orchestrator decides what missing
// support means.
type Registry struct {
	byPlatform map[string]Connector
}

func NewRegistry(connectors ...Connector) *Registry {
	r := &Registry{byPlatform: make(map[string]Connector, len(connectors))}
	for _, c := range connectors {
		r.byPlatform[c.Platform()] = c
	}
	return r
}

// Lookup returns the connector for platform, if one is registered.
func (r *Registry) Lookup(platform string) (Connector, bool) {
	c, ok := r.byPlatform[platform]
	return c, ok
}

// Platforms lists the registered platform tags in stable order.
func (r *Registry) Platforms() []string {
	out := make([]string, 0, len(r.byPlatform))
	for p := range r.byPlatform {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry wires up the full closed set of supported platforms over
// one shared HTTP client. Passing nil uses a client with the default
// per-call timeout.
func DefaultRegistry(hc *http.Client) *Registry {
	api := newAPIClient(hc)
	return NewRegistry(
		NewInstagramConnector(api),
		NewThreadsConnector(api),
		NewYouTubeConnector(api),
		NewTwitterConnector(api),
		NewTikTokConnector(api),
		NewFacebookConnector(api),
		NewMetaAdsConnector(api),
		NewMastodonConnector(),
	)
}
