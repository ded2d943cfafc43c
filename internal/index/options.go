// Package index holds the immutable database header (opts.k2d) shared by every
// consumer of a classification database.
package index

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"kr2r/internal/seqkmer"
)

// RecordSize is the encoded size of IndexOptions in bytes.
//
// Layout (little-endian, C struct order with natural alignment):
//
//	offset  width  field
//	0       8      k
//	8       8      l
//	16      8      spaced_seed_mask
//	24      8      toggle_mask
//	32      1      dna_db (0 or 1), followed by 7 zero bytes
//	40      8      minimum_acceptable_hash_value
//	48      4      revcom_version
//	52      4      db_version
//	56      4      db_type, followed by 4 zero bytes
const RecordSize = 64

// Sentinel errors returned by ReadIndexOptions.
var (
	ErrMalformedHeader     = errors.New("malformed index options header")
	ErrIncompatibleVersion = errors.New("incompatible index options revcom version")
)

// IndexOptions records the k-mer extraction parameters a database was built with.
type IndexOptions struct {
	K                          uint64
	L                          uint64
	SpacedSeedMask             uint64
	ToggleMask                 uint64
	DNADB                      bool
	MinimumAcceptableHashValue uint64
	RevcomVersion              int32
	DBVersion                  int32 // reserved for future database structure changes
	DBType                     int32 // reserved for alternative table layouts
}

// New returns options stamped with the current revcom version.
func New(k, l int, spacedSeedMask, toggleMask uint64, dnaDB bool, minimumAcceptableHashValue uint64) IndexOptions {
	return IndexOptions{
		K:                          uint64(k),
		L:                          uint64(l),
		SpacedSeedMask:             spacedSeedMask,
		ToggleMask:                 toggleMask,
		DNADB:                      dnaDB,
		MinimumAcceptableHashValue: minimumAcceptableHashValue,
		RevcomVersion:              seqkmer.CurrentRevcomVersion,
	}
}

// MarshalBinary encodes the fixed-layout record.
func (o IndexOptions) MarshalBinary() ([]byte, error) {
	b := make([]byte, RecordSize)
	le := binary.LittleEndian
	le.PutUint64(b[0:], o.K)
	le.PutUint64(b[8:], o.L)
	le.PutUint64(b[16:], o.SpacedSeedMask)
	le.PutUint64(b[24:], o.ToggleMask)
	if o.DNADB {
		b[32] = 1
	}
	le.PutUint64(b[40:], o.MinimumAcceptableHashValue)
	le.PutUint32(b[48:], uint32(o.RevcomVersion))
	le.PutUint32(b[52:], uint32(o.DBVersion))
	le.PutUint32(b[56:], uint32(o.DBType))
	return b, nil
}

// UnmarshalBinary decodes the record without checking the version.
func (o *IndexOptions) UnmarshalBinary(b []byte) error {
	if len(b) < RecordSize {
		return errors.Wrapf(ErrMalformedHeader, "got %d bytes, want %d", len(b), RecordSize)
	}
	le := binary.LittleEndian
	*o = IndexOptions{
		K:                          le.Uint64(b[0:]),
		L:                          le.Uint64(b[8:]),
		SpacedSeedMask:             le.Uint64(b[16:]),
		ToggleMask:                 le.Uint64(b[24:]),
		DNADB:                      b[32] != 0,
		MinimumAcceptableHashValue: le.Uint64(b[40:]),
		RevcomVersion:              int32(le.Uint32(b[48:])),
		DBVersion:                  int32(le.Uint32(b[52:])),
		DBType:                     int32(le.Uint32(b[56:])),
	}
	return nil
}

// Decode reads exactly one record from r and checks its revcom version.
func Decode(r io.Reader) (IndexOptions, error) {
	buf := make([]byte, RecordSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return IndexOptions{}, errors.Wrapf(ErrMalformedHeader, "short read: %v", err)
		}
		return IndexOptions{}, errors.WithStack(err)
	}
	var o IndexOptions
	if err := o.UnmarshalBinary(buf); err != nil {
		return IndexOptions{}, err
	}
	if o.RevcomVersion != seqkmer.CurrentRevcomVersion {
		return IndexOptions{}, errors.Wrapf(ErrIncompatibleVersion, "got %d, want %d",
			o.RevcomVersion, seqkmer.CurrentRevcomVersion)
	}
	return o, nil
}

// ReadIndexOptions loads the header from path. A short file or a revcom
// version mismatch means the database is unusable.
func ReadIndexOptions(path string) (IndexOptions, error) {
	f, err := os.Open(path)
	if err != nil {
		return IndexOptions{}, errors.WithStack(err)
	}
	defer f.Close()

	o, err := Decode(f)
	if err != nil {
		return IndexOptions{}, errors.Wrapf(err, "reading %q", path)
	}
	return o, nil
}

// WriteToFile serializes the record into a newly created file at path.
func (o IndexOptions) WriteToFile(path string) error {
	b, err := o.MarshalBinary()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "writing %q", path)
	}
	return errors.WithStack(f.Close())
}

// FromMeros captures a scheme for a DNA database.
func FromMeros(m seqkmer.Meros) IndexOptions {
	return New(m.KMer, m.LMer, m.SpacedSeedMask, m.ToggleMask, true, m.MinClearHashValue)
}

// AsMeros rebuilds the extraction scheme recorded in the header.
func (o IndexOptions) AsMeros() (seqkmer.Meros, error) {
	return seqkmer.NewMeros(int(o.K), int(o.L), o.SpacedSeedMask, o.ToggleMask, o.MinimumAcceptableHashValue)
}
