package storage

import (
	"context"
)

// ImageStore abstracts deletion of stored product images. The catalog service
// never writes image bytes itself; it only releases a stored image when a
// product's image reference is replaced or the product is removed.
type ImageStore interface {
	// Delete removes the image identified by ref. Deleting a ref that does
	// not resolve to a stored image is not an error.
	Delete(ctx context.Context, ref string) error
}
