package readcounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCounter(t *testing.T) {
	c := NewReadCounter()
	c.AddKmer(7)
	c.AddKmer(7)
	c.AddKmer(9)
	c.IncrementReadCount()

	assert.Equal(t, uint64(3), c.KmerCount)
	assert.Equal(t, uint64(2), c.DistinctKmers())
	assert.Equal(t, uint64(1), c.ReadCount)
}

func TestTaxonCountersMerge(t *testing.T) {
	a := TaxonCounters{}
	a.Entry(1).AddKmer(10)
	a.Entry(2).IncrementReadCount()

	b := TaxonCounters{}
	b.Entry(1).AddKmer(11)
	b.Entry(1).IncrementReadCount()
	b.Entry(3).AddKmer(10)

	a.Merge(b)
	assert.Equal(t, []uint64{1, 2, 3}, a.Taxa())
	assert.Equal(t, uint64(2), a[1].KmerCount)
	assert.Equal(t, uint64(2), a[1].DistinctKmers())
	assert.Equal(t, uint64(2), a.TotalReads())
	assert.Equal(t, uint64(1), b[3].DistinctKmers())
}
