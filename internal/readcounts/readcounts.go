// Package readcounts tracks per-taxon abundance for classified reads.
package readcounts

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/samber/lo"
)

// ReadCounter counts classified reads and k-mer hits attributed to one taxon.
// Distinct k-mers are tracked by their table cell value.
type ReadCounter struct {
	ReadCount uint64
	KmerCount uint64
	kmers     *roaring.Bitmap
}

// NewReadCounter returns an empty counter.
func NewReadCounter() *ReadCounter {
	return &ReadCounter{kmers: roaring.New()}
}

// AddKmer records one k-mer occurrence.
func (c *ReadCounter) AddKmer(value uint32) {
	c.KmerCount++
	c.kmers.Add(value)
}

// IncrementReadCount records one classified read.
func (c *ReadCounter) IncrementReadCount() {
	c.ReadCount++
}

// DistinctKmers is the number of distinct k-mers seen.
func (c *ReadCounter) DistinctKmers() uint64 {
	return c.kmers.GetCardinality()
}

// Merge folds other into c.
func (c *ReadCounter) Merge(other *ReadCounter) {
	c.ReadCount += other.ReadCount
	c.KmerCount += other.KmerCount
	c.kmers.Or(other.kmers)
}

// TaxonCounters maps taxon-node indices to their counters.
type TaxonCounters map[uint64]*ReadCounter

// Entry returns the counter of taxon, creating it when missing.
func (tc TaxonCounters) Entry(taxon uint64) *ReadCounter {
	c, ok := tc[taxon]
	if !ok {
		c = NewReadCounter()
		tc[taxon] = c
	}
	return c
}

// Merge folds other into tc.
func (tc TaxonCounters) Merge(other TaxonCounters) {
	for taxon, c := range other {
		tc.Entry(taxon).Merge(c)
	}
}

// Taxa returns the taxa present, sorted.
func (tc TaxonCounters) Taxa() []uint64 {
	taxa := lo.Keys(tc)
	sort.Slice(taxa, func(i, j int) bool { return taxa[i] < taxa[j] })
	return taxa
}

// TotalReads sums the classified reads over all taxa.
func (tc TaxonCounters) TotalReads() uint64 {
	return lo.SumBy(lo.Values(tc), func(c *ReadCounter) uint64 { return c.ReadCount })
}
