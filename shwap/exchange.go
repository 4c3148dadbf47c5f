package shwap

import "context"

// Exchange is the content-exchange collaborator a sampling coordinator uses
// to fetch shares identified by CID from the network. Its concrete transport
// (bitswap-style exchange, direct peer request, etc.) is out of scope here;
// this interface is the seam the sampler and tests depend on.
type Exchange interface {
	// Fetch retrieves the raw bytes addressed by id, verifying them against
	// id before returning. Fetch must return ctx.Err() once ctx is done.
	Fetch(ctx context.Context, id []byte) ([]byte, error)
}
