package marketplace

import "context"

// MeeshoClient is registered as a source so the sync endpoint recognizes the
// name, but Meesho exposes no public product API, so its fetch always fails.
// The sync flow treats that like any other fetch failure: logged, zero
// results.
//
// TODO: implement once a supplier API account is provisioned.
type MeeshoClient struct{}

// NewMeeshoClient creates the placeholder Meesho fetcher.
func NewMeeshoClient() *MeeshoClient { return &MeeshoClient{} }

// Source returns the registry name of this marketplace.
func (c *MeeshoClient) Source() string { return SourceMeesho }

// Fetch always returns ErrSourceNotImplemented.
func (c *MeeshoClient) Fetch(_ context.Context, _ string, _ int) ([]ExternalProduct, error) {
	return nil, ErrSourceNotImplemented
}
