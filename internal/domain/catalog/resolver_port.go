// internal/domain/catalog/resolver_port.go
package catalog

import "context"

// Resolver is the read-only port to the external catalog store.
//
// Contract:
// - unknown id -> (Absent(), nil)
// - transport / decode failure -> (Absent(), err)
type Resolver interface {
	ResolveProduct(ctx context.Context, productID string) (Resolution, error)
}
