// Package fetch defines the collaborator a syncer uses to pull headers
// from the network, decoupling header retrieval from header validation and
// storage.
package fetch

import (
	"context"

	"github.com/tos-network/dasnode/header"
)

// HeaderFetcher retrieves headers from peers. Implementations own their own
// peer selection, retries, and timeouts; callers are only responsible for
// verifying and storing what comes back.
type HeaderFetcher interface {
	// Head returns the highest header the fetcher's peers report.
	Head(ctx context.Context) (header.ExtendedHeader, error)
	// GetRange returns headers for heights [from, to], inclusive, in
	// ascending order. It may return fewer headers than requested if peers
	// do not have all of them yet.
	GetRange(ctx context.Context, from, to uint64) ([]header.ExtendedHeader, error)
	// GetByHash returns the header with the given hash, if any peer has it.
	GetByHash(ctx context.Context, hash header.Hash) (header.ExtendedHeader, error)
}
