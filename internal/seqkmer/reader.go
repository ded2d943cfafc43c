package seqkmer

import (
	"io"

	"github.com/pkg/errors"
)

// DefaultBatchSize is the number of records (or pairs) per batch.
const DefaultBatchSize = 4096

// Reader yields ordered batches of records. It returns io.EOF once the input is exhausted.
type Reader interface {
	Next() ([]Base[[]byte], error)
}

// ReaderOptions controls batching and quality masking.
type ReaderOptions struct {
	BatchSize  int
	MinQuality int // Phred score; bases below it are masked. 0 disables masking.
}

func (o ReaderOptions) batchSize() int {
	if o.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return o.BatchSize
}

type source struct {
	rc io.ReadCloser
	rs recordScanner
}

func openSource(path string) (source, error) {
	rc, err := openReader(path)
	if err != nil {
		return source{}, err
	}
	rs, err := newRecordScanner(rc)
	if err != nil {
		_ = rc.Close()
		return source{}, errors.Wrapf(err, "reading %q", path)
	}
	return source{rc: rc, rs: rs}, nil
}

// FastxReader reads one FASTA/FASTQ file, or two mate files in lockstep.
type FastxReader struct {
	sources    OptionPair[source]
	paths      OptionPair[string]
	fileIndex  int
	opts       ReaderOptions
	readsIndex uint64
	done       bool
}

// OpenFastx opens one path for single-end input or two paths for paired input.
func OpenFastx(paths []string, fileIndex int, opts ReaderOptions) (*FastxReader, error) {
	switch len(paths) {
	case 1, 2:
	default:
		return nil, errors.Errorf("expected 1 or 2 input files, got %d", len(paths))
	}
	first, err := openSource(paths[0])
	if err != nil {
		return nil, err
	}
	r := &FastxReader{fileIndex: fileIndex, opts: opts}
	if len(paths) == 1 {
		r.sources = Single(first)
		r.paths = Single(paths[0])
		return r, nil
	}
	second, err := openSource(paths[1])
	if err != nil {
		_ = first.rc.Close()
		return nil, err
	}
	r.sources = Pair(first, second)
	r.paths = Pair(paths[0], paths[1])
	return r, nil
}

func (r *FastxReader) read(s source) (record, error) {
	rec, err := s.rs.next()
	if err != nil {
		return rec, err
	}
	maskLowQuality(&rec, r.opts.MinQuality)
	return rec, nil
}

// trimMateSuffix drops a trailing "/1" or "/2" so both mates share one id.
func trimMateSuffix(id string) string {
	if n := len(id); n > 2 && id[n-2] == '/' && (id[n-1] == '1' || id[n-1] == '2') {
		return id[:n-2]
	}
	return id
}

// Next returns up to BatchSize records.
func (r *FastxReader) Next() ([]Base[[]byte], error) {
	if r.done {
		return nil, io.EOF
	}
	n := r.opts.batchSize()
	batch := make([]Base[[]byte], 0, n)
	for len(batch) < n {
		rec1, err := r.read(r.sources.First)
		if errors.Is(err, io.EOF) {
			if r.sources.Paired {
				if _, err2 := r.read(r.sources.Second); !errors.Is(err2, io.EOF) {
					return nil, errors.Errorf("mate file %q has more records than %q", r.paths.Second, r.paths.First)
				}
			}
			r.done = true
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q", r.paths.First)
		}

		id := rec1.ID
		if r.sources.Paired {
			id = trimMateSuffix(id)
		}
		hdr := Header{
			ID:         id,
			FileIndex:  r.fileIndex,
			ReadsIndex: r.readsIndex,
			Format:     r.sources.First.rs.format(),
		}
		r.readsIndex++

		if !r.sources.Paired {
			batch = append(batch, Base[[]byte]{Header: hdr, Body: Single(rec1.Seq)})
			continue
		}
		rec2, err := r.read(r.sources.Second)
		if errors.Is(err, io.EOF) {
			return nil, errors.Errorf("mate file %q has fewer records than %q", r.paths.Second, r.paths.First)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q", r.paths.Second)
		}
		batch = append(batch, Base[[]byte]{Header: hdr, Body: Pair(rec1.Seq, rec2.Seq)})
	}
	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

// Close releases the underlying files.
func (r *FastxReader) Close() error {
	var err error
	for _, s := range r.sources.Slice() {
		if cerr := s.rc.Close(); cerr != nil && err == nil {
			err = errors.WithStack(cerr)
		}
	}
	return err
}

// FileSetReader reads several file sets one after another. Each set is one
// path (single-end) or two (paired); sets are opened lazily.
type FileSetReader struct {
	sets    [][]string
	opts    ReaderOptions
	next    int
	current *FastxReader
}

// NewFileSetReader builds a reader over sets; the file index of a record is
// the index of its set.
func NewFileSetReader(sets [][]string, opts ReaderOptions) *FileSetReader {
	return &FileSetReader{sets: sets, opts: opts}
}

// GroupPaths splits paths into single-end sets, or consecutive mate pairs when paired.
func GroupPaths(paths []string, paired bool) ([][]string, error) {
	if !paired {
		sets := make([][]string, 0, len(paths))
		for _, p := range paths {
			sets = append(sets, []string{p})
		}
		return sets, nil
	}
	if len(paths)%2 != 0 {
		return nil, errors.Errorf("paired mode requires an even number of files, got %d", len(paths))
	}
	sets := make([][]string, 0, len(paths)/2)
	for i := 0; i < len(paths); i += 2 {
		sets = append(sets, []string{paths[i], paths[i+1]})
	}
	return sets, nil
}

// Next returns the next batch across all sets.
func (r *FileSetReader) Next() ([]Base[[]byte], error) {
	for {
		if r.current == nil {
			if r.next >= len(r.sets) {
				return nil, io.EOF
			}
			cur, err := OpenFastx(r.sets[r.next], r.next, r.opts)
			if err != nil {
				return nil, err
			}
			r.current = cur
			r.next++
		}
		batch, err := r.current.Next()
		if errors.Is(err, io.EOF) {
			if cerr := r.current.Close(); cerr != nil {
				return nil, cerr
			}
			r.current = nil
			continue
		}
		return batch, err
	}
}

// Close releases the file set currently open, if any.
func (r *FileSetReader) Close() error {
	if r.current == nil {
		return nil
	}
	err := r.current.Close()
	r.current = nil
	return err
}

// SliceReader serves pre-built batches; it is handy for tests and in-memory input.
type SliceReader struct {
	batches [][]Base[[]byte]
}

// NewSliceReader returns a Reader over batches.
func NewSliceReader(batches ...[]Base[[]byte]) *SliceReader {
	return &SliceReader{batches: batches}
}

// Next pops the next batch.
func (r *SliceReader) Next() ([]Base[[]byte], error) {
	if len(r.batches) == 0 {
		return nil, io.EOF
	}
	b := r.batches[0]
	r.batches = r.batches[1:]
	return b, nil
}
