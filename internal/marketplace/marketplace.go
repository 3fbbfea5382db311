// Package marketplace fetches product listings from third-party sources and
// normalizes them into a shape the catalog can import. Each source is an
// adapter behind the Fetcher interface, registered by name in a Registry.
package marketplace

import (
	"context"
	"errors"
	"net/http"
	"sort"
)

// Source names accepted by the sync endpoint.
const (
	SourceFakeStore = "fakestore"
	SourceBestBuy   = "bestbuy"
	SourceMeesho    = "meesho"
)

// ErrSourceNotImplemented is returned by sources that are registered but have
// no working fetch yet.
var ErrSourceNotImplemented = errors.New("source fetch not implemented")

// ExternalProduct is a normalized product listing as returned by a source
// adapter, before transformation into the local catalog shape. Zero Rating,
// Stock or Brand values mean the source did not provide them.
type ExternalProduct struct {
	ExternalID  string
	Title       string
	Description string
	Brand       string
	Category    string
	Image       string
	PriceUSD    float64
	Rating      float64
	Stock       int
}

// Fetcher retrieves product listings from a single marketplace.
type Fetcher interface {
	// Source returns the registry name of this marketplace.
	Source() string

	// Fetch returns up to limit listings matching the category keyword.
	// An empty category means no keyword filtering.
	Fetch(ctx context.Context, category string, limit int) ([]ExternalProduct, error)
}

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Registry holds the available marketplace fetchers keyed by source name.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry builds a registry from the given fetchers. A later fetcher with
// the same source name replaces an earlier one.
func NewRegistry(fetchers ...Fetcher) *Registry {
	r := &Registry{fetchers: make(map[string]Fetcher, len(fetchers))}
	for _, f := range fetchers {
		r.fetchers[f.Source()] = f
	}
	return r
}

// Lookup returns the fetcher registered under the given source name.
func (r *Registry) Lookup(source string) (Fetcher, bool) {
	f, ok := r.fetchers[source]
	return f, ok
}

// Sources returns the registered source names in sorted order.
func (r *Registry) Sources() []string {
	names := make([]string, 0, len(r.fetchers))
	for name := range r.fetchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
