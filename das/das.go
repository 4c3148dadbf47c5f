// Package das implements the data-availability sampling loop: for each
// stored header not yet sampled, fetch a fixed number (SamplesPerHeader) of random
// sample coordinates within its extended data square and record whether
// they were all retrievable.
package das

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/tos-network/dasnode/header"
	"github.com/tos-network/dasnode/shwap"
	"github.com/tos-network/dasnode/store"
)

// SamplesPerHeader is how many random (row, column) coordinates are sampled
// per header before a verdict is recorded.
const SamplesPerHeader = 16

// Sampler drives data availability sampling against a store, using an
// Exchange to fetch individual shares by CID.
type Sampler struct {
	store    store.Store
	exchange shwap.Exchange
}

// New returns a Sampler reading unsampled heights from s and fetching
// shares through ex.
func New(s store.Store, ex shwap.Exchange) *Sampler {
	return &Sampler{store: s, exchange: ex}
}

// SampleNext samples the next unsampled stored header, if any, and writes
// the verdict back to the store. It returns the sampled height, or 0 if
// there was nothing left to sample.
func (s *Sampler) SampleNext(ctx context.Context) (uint64, error) {
	height, err := s.store.NextUnsampledHeight(ctx)
	if err != nil {
		return 0, err
	}
	if height == 0 {
		return 0, nil
	}

	head, err := s.store.HeadHeight(ctx)
	if err != nil {
		return 0, err
	}
	if height > head {
		return 0, nil
	}

	eh, err := s.store.GetByHeight(ctx, height)
	if err != nil {
		return 0, err
	}

	meta, err := s.sampleHeader(ctx, eh)
	if err != nil {
		return 0, err
	}

	if err := s.store.UpdateSamplingMetadata(ctx, height, meta); err != nil {
		return 0, err
	}
	return height, nil
}

func (s *Sampler) sampleHeader(ctx context.Context, eh header.ExtendedHeader) (store.SamplingMetadata, error) {
	width := eh.Dah.SquareWidth()
	if width == 0 {
		return store.SamplingMetadata{Accepted: false}, nil
	}

	meta := store.SamplingMetadata{Accepted: true}
	for i := 0; i < SamplesPerHeader; i++ {
		row, col, err := randomCoordinate(width)
		if err != nil {
			return store.SamplingMetadata{}, fmt.Errorf("das: choosing sample coordinate: %w", err)
		}

		rootHash := sha256.Sum256(eh.Dah.RowRoot(row))

		id, err := shwap.NewSampleID(uint16(row), uint16(col), rootHash, eh.Height())
		if err != nil {
			return store.SamplingMetadata{}, err
		}
		c, err := id.Cid()
		if err != nil {
			return store.SamplingMetadata{}, err
		}

		if _, err := s.exchange.Fetch(ctx, c.Bytes()); err != nil {
			meta.Accepted = false
			continue
		}
		meta.CIDsSampled = append(meta.CIDsSampled, c)
	}

	return meta, nil
}

func randomCoordinate(width int) (row, col int, err error) {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(width)))
	if err != nil {
		return 0, 0, err
	}
	c, err := rand.Int(rand.Reader, big.NewInt(int64(width)))
	if err != nil {
		return 0, 0, err
	}
	return int(r.Int64()), int(c.Int64()), nil
}
