// Package sampler implements a deterministic weighted journey sampler:
// given a stable key and a seed, it always picks the same journey, and
// across many keys the picks approximate each journey's configured weight
// share.
package sampler

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
)

// WeightSampler buckets journeys by cumulative weight and resolves a
// stable key to a journey id via a SHA-256 hash of "key:seed=<seed>".
type WeightSampler struct {
	Seed           string
	TotalWeight    uint64
	JourneyIDs     []int
	CumulativeEnds []uint64
}

// New builds a WeightSampler from parallel journeyIDs/weights slices (the
// caller — internal/plan — owns mapping ids back to scenario.Journey).
// weights must be the same length as journeyIDs and every weight > 0.
func New(journeyIDs []int, weights []int, seed string) *WeightSampler {
	ends := make([]uint64, len(weights))
	var acc uint64
	for i, w := range weights {
		acc += uint64(w)
		ends[i] = acc
	}
	ids := make([]int, len(journeyIDs))
	copy(ids, journeyIDs)
	return &WeightSampler{
		Seed:           seed,
		TotalWeight:    acc,
		JourneyIDs:     ids,
		CumulativeEnds: ends,
	}
}

// WithSeed returns a copy of the sampler with a different seed. The run
// engine constructs the plan once and stamps the run's configured seed in
// afterward, so the same seed reproduces the same journey assignment.
func (s *WeightSampler) WithSeed(seed string) *WeightSampler {
	clone := *s
	clone.Seed = seed
	return &clone
}

// PeekBucket resolves a bucket in [0, TotalWeight) to a journey id by
// finding the first cumulative end strictly greater than bucket.
func (s *WeightSampler) PeekBucket(bucket uint64) (int, bool) {
	if s.TotalWeight == 0 || len(s.JourneyIDs) == 0 {
		return 0, false
	}
	idx := sort.Search(len(s.CumulativeEnds), func(i int) bool {
		return s.CumulativeEnds[i] > bucket
	})
	if idx >= len(s.JourneyIDs) {
		return 0, false
	}
	return s.JourneyIDs[idx], true
}

// Peek derives a bucket from stableKey and the sampler's seed, then
// resolves it to a journey id. The same (stableKey, seed) pair always
// yields the same journey id, independent of call order or wall time.
func (s *WeightSampler) Peek(stableKey string) (int, bool) {
	if s.TotalWeight == 0 {
		return 0, false
	}
	key := fmt.Sprintf("%s:seed=%s", stableKey, s.Seed)
	bucket := bucketFromKey(key, s.TotalWeight)
	return s.PeekBucket(bucket)
}

func bucketFromKey(key string, totalWeight uint64) uint64 {
	digest := sha256.Sum256([]byte(key))
	n := binary.BigEndian.Uint64(digest[:8])
	return n % totalWeight
}
