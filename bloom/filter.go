// Package bloom provides a probabilistic seen-set for article IDs.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter over article IDs.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected IDs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(max(n, 1), fpRate),
	}
}

// NewFilterWithIDs creates a filter holding ids, sized for twice their
// number (and at least minN) so a crawl can keep adding new IDs.
func NewFilterWithIDs(ids []string, minN uint, fpRate float64) *Filter {
	f := NewFilter(max(2*uint(len(ids)), minN), fpRate)
	for _, id := range ids {
		f.Add(id)
	}
	return f
}

// Add adds an ID to the filter.
func (f *Filter) Add(id string) {
	f.f.AddString(id)
}

// Test returns true if the ID might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(id string) bool {
	return f.f.TestString(id)
}

// EstimatedCount returns the approximate number of IDs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
