package seqkmer

// Format is the on-disk format a record was read from.
type Format int

// Supported input formats.
const (
	FormatFasta Format = iota
	FormatFastq
)

func (f Format) String() string {
	if f == FormatFastq {
		return "fastq"
	}
	return "fasta"
}

// Header describes where a record came from.
type Header struct {
	ID         string
	FileIndex  int
	ReadsIndex uint64 // 0-based ordinal of the read within its file set
	Format     Format
}

// Base is one read or read pair with a payload per mate.
type Base[T any] struct {
	Header Header
	Body   OptionPair[T]
}

// MapBase converts the per-mate payload and keeps the header.
func MapBase[T, U any](b Base[T], fn func(T) U) Base[U] {
	return Base[U]{Header: b.Header, Body: MapPair(b.Body, fn)}
}
