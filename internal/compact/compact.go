// Package compact reads the compact hash table mapping minimizer hashes to
// taxon-encoded cells. Each 32-bit cell stores the high bits of the hash
// above ValueBits low bits of taxon-node index.
package compact

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"kr2r/internal/seqkmer"
)

// HeaderSize is the size of the table header: capacity, size, key_bits and
// value_bits as u64 each.
const HeaderSize = 4 * 8

const cellSize = 4

// ErrMalformedTable is returned when a table file does not match its header.
var ErrMalformedTable = errors.New("malformed compact hash table")

// Row is a minimizer that hit the table. KmerID is its 1-based ordinal within
// the read or pair.
type Row struct {
	KmerID uint32
	Value  uint32
}

// HashConfig describes the cell encoding of a table.
type HashConfig struct {
	Capacity  uint64
	Size      uint64
	KeyBits   uint64
	ValueBits uint64
	ValueMask uint32
}

// NewHashConfig derives key bits and the value mask from valueBits.
func NewHashConfig(capacity, size, valueBits uint64) (HashConfig, error) {
	if capacity == 0 {
		return HashConfig{}, errors.Wrap(ErrMalformedTable, "zero capacity")
	}
	if valueBits == 0 || valueBits >= 32 {
		return HashConfig{}, errors.Wrapf(ErrMalformedTable, "value bits %d out of range [1, 31]", valueBits)
	}
	return HashConfig{
		Capacity:  capacity,
		Size:      size,
		KeyBits:   32 - valueBits,
		ValueBits: valueBits,
		ValueMask: uint32(1)<<valueBits - 1,
	}, nil
}

// Table is safe for concurrent lookups.
type Table struct {
	Config HashConfig
	cells  []byte
	close  func() error

	taxonLimit uint32
}

// NewTable allocates an empty in-memory table.
func NewTable(capacity, valueBits uint64) (*Table, error) {
	cfg, err := NewHashConfig(capacity, 0, valueBits)
	if err != nil {
		return nil, err
	}
	return &Table{Config: cfg, cells: make([]byte, capacity*cellSize)}, nil
}

func (t *Table) cell(idx uint64) uint32 {
	return binary.LittleEndian.Uint32(t.cells[idx*cellSize:])
}

func (t *Table) compactedKey(hash uint64) uint32 {
	return uint32(hash >> (32 + t.Config.ValueBits))
}

// Get returns the raw cell stored for hash, or 0 when absent.
func (t *Table) Get(hash uint64) uint32 {
	key := t.compactedKey(hash)
	idx := hash % t.Config.Capacity
	first := idx
	for {
		c := t.cell(idx)
		if c&t.Config.ValueMask == 0 {
			return 0
		}
		if c>>t.Config.ValueBits == key {
			return c
		}
		idx++
		if idx == t.Config.Capacity {
			idx = 0
		}
		if idx == first {
			return 0
		}
	}
}

// Insert stores taxon for hash, replacing a previous value for the same key.
// It exists to build fixtures; databases are built elsewhere.
func (t *Table) Insert(hash uint64, taxon uint32) error {
	if taxon == 0 || taxon > t.Config.ValueMask {
		return errors.Errorf("taxon %d does not fit in %d value bits", taxon, t.Config.ValueBits)
	}
	key := t.compactedKey(hash)
	idx := hash % t.Config.Capacity
	first := idx
	for {
		c := t.cell(idx)
		if c&t.Config.ValueMask == 0 || c>>t.Config.ValueBits == key {
			if c&t.Config.ValueMask == 0 {
				t.Config.Size++
			}
			binary.LittleEndian.PutUint32(t.cells[idx*cellSize:], key<<t.Config.ValueBits|taxon)
			return nil
		}
		idx++
		if idx == t.Config.Capacity {
			idx = 0
		}
		if idx == first {
			return errors.New("compact hash table is full")
		}
	}
}

// SetTaxonLimit makes Lookup treat cells whose taxon is n or above as misses.
// Zero disables the check.
func (t *Table) SetTaxonLimit(n uint32) {
	t.taxonLimit = n
}

// Lookup queries every minimizer of a read or pair and returns the rows that
// hit, plus the ordinal range covered by each mate. Hashes below
// minClearHashValue are not looked up but still occupy an ordinal.
func (t *Table) Lookup(mins seqkmer.OptionPair[[]uint64], minClearHashValue uint64) ([]Row, seqkmer.OptionPair[seqkmer.Range]) {
	var rows []Row
	offset := 0
	query := func(hashes []uint64) seqkmer.Range {
		r := seqkmer.Range{Start: offset, End: offset + len(hashes)}
		for i, h := range hashes {
			if minClearHashValue != 0 && h < minClearHashValue {
				continue
			}
			if v := t.Get(h); v != 0 {
				if t.taxonLimit != 0 && v&t.Config.ValueMask >= t.taxonLimit {
					continue
				}
				rows = append(rows, Row{KmerID: uint32(offset + i + 1), Value: v})
			}
		}
		offset = r.End
		return r
	}
	ranges := seqkmer.MapPair(mins, query)
	return rows, ranges
}

// Close releases the mapping of a table opened from disk.
func (t *Table) Close() error {
	if t.close == nil {
		return nil
	}
	err := t.close()
	t.close = nil
	return err
}
