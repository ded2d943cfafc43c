package compact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kr2r/internal/seqkmer"
)

func TestInsertGet(t *testing.T) {
	tbl, err := NewTable(64, 8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xff), tbl.Config.ValueMask)
	assert.Equal(t, uint64(24), tbl.Config.KeyBits)

	hashes := []uint64{seqkmer.MurmurHash3(1), seqkmer.MurmurHash3(2), seqkmer.MurmurHash3(3)}
	for i, h := range hashes {
		require.NoError(t, tbl.Insert(h, uint32(i+1)))
	}
	assert.Equal(t, uint64(3), tbl.Config.Size)

	for i, h := range hashes {
		v := tbl.Get(h)
		assert.Equal(t, uint32(i+1), v&tbl.Config.ValueMask)
		assert.Equal(t, uint32(h>>40), v>>8)
	}
	assert.Zero(t, tbl.Get(seqkmer.MurmurHash3(4)))

	require.NoError(t, tbl.Insert(hashes[0], 9))
	assert.Equal(t, uint32(9), tbl.Get(hashes[0])&tbl.Config.ValueMask)
	assert.Equal(t, uint64(3), tbl.Config.Size)

	require.Error(t, tbl.Insert(hashes[0], 0))
	require.Error(t, tbl.Insert(hashes[0], 256))
}

func TestProbingPastCollisions(t *testing.T) {
	tbl, err := NewTable(4, 4)
	require.NoError(t, err)
	// Same slot (hash % 4 == 1), different compacted keys.
	a, b := uint64(1)<<36|1, uint64(2)<<36|1
	require.NoError(t, tbl.Insert(a, 3))
	require.NoError(t, tbl.Insert(b, 5))
	assert.Equal(t, uint32(3), tbl.Get(a)&tbl.Config.ValueMask)
	assert.Equal(t, uint32(5), tbl.Get(b)&tbl.Config.ValueMask)
}

func TestFullTable(t *testing.T) {
	tbl, err := NewTable(2, 4)
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(uint64(1)<<36, 1))
	require.NoError(t, tbl.Insert(uint64(2)<<36, 1))
	require.Error(t, tbl.Insert(uint64(3)<<36, 1))
	assert.Zero(t, tbl.Get(uint64(4)<<36))
}

func TestLookup(t *testing.T) {
	tbl, err := NewTable(64, 8)
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(100<<40, 7))
	require.NoError(t, tbl.Insert(200<<40, 9))

	rows, ranges := tbl.Lookup(seqkmer.Pair([]uint64{1, 100 << 40, 2}, []uint64{200 << 40, 5}), 0)
	require.Len(t, rows, 2)
	assert.Equal(t, uint32(2), rows[0].KmerID)
	assert.Equal(t, uint32(4), rows[1].KmerID)
	assert.Equal(t, seqkmer.Range{Start: 0, End: 3}, ranges.First)
	assert.Equal(t, seqkmer.Range{Start: 3, End: 5}, ranges.Second)

	rows, ranges = tbl.Lookup(seqkmer.Single([]uint64{100 << 40, 200 << 40}), 150<<40)
	require.Len(t, rows, 1)
	assert.Equal(t, uint32(2), rows[0].KmerID)
	assert.Equal(t, 2, ranges.First.Len())
}

func TestLookupTaxonLimit(t *testing.T) {
	tbl, err := NewTable(64, 8)
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(100<<40, 3))
	require.NoError(t, tbl.Insert(200<<40, 200))

	mins := seqkmer.Single([]uint64{100 << 40, 200 << 40})
	rows, _ := tbl.Lookup(mins, 0)
	require.Len(t, rows, 2)

	tbl.SetTaxonLimit(4)
	rows, ranges := tbl.Lookup(mins, 0)
	require.Len(t, rows, 1)
	assert.Equal(t, uint32(1), rows[0].KmerID)
	assert.Equal(t, uint32(3), rows[0].Value&tbl.Config.ValueMask)
	assert.Equal(t, 2, ranges.First.Len())
}

func TestFileRoundTrip(t *testing.T) {
	tbl, err := NewTable(16, 10)
	require.NoError(t, err)
	require.NoError(t, tbl.Insert(seqkmer.MurmurHash3(42), 513))

	fn := filepath.Join(t.TempDir(), "hash.k2d")
	require.NoError(t, tbl.WriteToFile(fn))

	cfg, err := ReadHashConfig(fn)
	require.NoError(t, err)
	assert.Equal(t, tbl.Config, cfg)

	opened, err := Open(fn)
	require.NoError(t, err)
	defer opened.Close()
	assert.Equal(t, uint32(513), opened.Get(seqkmer.MurmurHash3(42))&opened.Config.ValueMask)
}

func TestOpenTruncated(t *testing.T) {
	tbl, err := NewTable(16, 10)
	require.NoError(t, err)
	fn := filepath.Join(t.TempDir(), "hash.k2d")
	require.NoError(t, tbl.WriteToFile(fn))

	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fn, data[:len(data)-4], 0o644))

	_, err = Open(fn)
	assert.True(t, errors.Is(err, ErrMalformedTable))

	require.NoError(t, os.WriteFile(fn, data[:8], 0o644))
	_, err = Open(fn)
	assert.True(t, errors.Is(err, ErrMalformedTable))
}
