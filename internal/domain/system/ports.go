package system

import "context"

// CatalogClient is the catalog service as seen by the lookup worker.
// Implementations absorb every transport and decode failure and report it as an
// empty Payload; they never return errors to the caller.
type CatalogClient interface {
	// SystemQuery resolves a target by name (first stage)
	SystemQuery(ctx context.Context, target *Target) Payload

	// BodiesQuery enumerates bodies and permit/lock metadata (second stage)
	BodiesQuery(ctx context.Context, target *Target) Payload
}
