package seqkmer

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)

// record is one parsed FASTA/FASTQ entry. Qual is nil for FASTA.
type record struct {
	ID   string
	Seq  []byte
	Qual []byte
}

type recordScanner interface {
	next() (record, error)
	format() Format
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}

// newRecordScanner sniffs the first non-empty byte: '>' is FASTA, '@' is FASTQ.
func newRecordScanner(r io.Reader) (recordScanner, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	for {
		b, err := br.Peek(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return emptyScanner{}, nil
			}
			return nil, errors.WithStack(err)
		}
		switch b[0] {
		case '\n', '\r', ' ', '\t':
			_, _ = br.ReadByte()
			continue
		case '>':
			return &fastaScanner{sc: newLineScanner(br)}, nil
		case '@':
			return &fastqScanner{sc: newLineScanner(br)}, nil
		}
		return nil, errors.Errorf("unrecognised sequence format (first byte %q)", b[0])
	}
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return sc
}

type emptyScanner struct{}

func (emptyScanner) next() (record, error) { return record{}, io.EOF }
func (emptyScanner) format() Format        { return FormatFasta }

type fastaScanner struct {
	sc      *bufio.Scanner
	pending string
	started bool
	done    bool
}

func (s *fastaScanner) format() Format { return FormatFasta }

func (s *fastaScanner) next() (record, error) {
	if s.done {
		return record{}, io.EOF
	}
	var seq []byte
	for s.sc.Scan() {
		line := s.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			id := parseHeaderID(line[1:])
			if !s.started {
				s.started = true
				s.pending = id
				continue
			}
			rec := record{ID: s.pending, Seq: seq}
			s.pending = id
			return rec, nil
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := s.sc.Err(); err != nil {
		return record{}, errors.Wrap(err, "fasta scan")
	}
	s.done = true
	if !s.started {
		return record{}, io.EOF
	}
	return record{ID: s.pending, Seq: seq}, nil
}

type fastqScanner struct {
	sc *bufio.Scanner
}

func (s *fastqScanner) format() Format { return FormatFastq }

func (s *fastqScanner) line() ([]byte, bool) {
	for s.sc.Scan() {
		if l := s.sc.Bytes(); len(l) > 0 {
			return l, true
		}
	}
	return nil, false
}

func (s *fastqScanner) next() (record, error) {
	hdr, ok := s.line()
	if !ok {
		if err := s.sc.Err(); err != nil {
			return record{}, errors.Wrap(err, "fastq scan")
		}
		return record{}, io.EOF
	}
	if hdr[0] != '@' {
		return record{}, errors.Errorf("fastq: expected '@' header, got %q", hdr)
	}
	rec := record{ID: parseHeaderID(hdr[1:])}

	seq, ok := s.line()
	if !ok {
		return record{}, errors.Errorf("fastq: truncated record %q", rec.ID)
	}
	rec.Seq = append([]byte(nil), bytes.TrimSpace(seq)...)

	plus, ok := s.line()
	if !ok || plus[0] != '+' {
		return record{}, errors.Errorf("fastq: missing '+' separator in record %q", rec.ID)
	}
	qual, ok := s.line()
	if !ok {
		return record{}, errors.Errorf("fastq: missing quality line in record %q", rec.ID)
	}
	rec.Qual = append([]byte(nil), bytes.TrimSpace(qual)...)
	if len(rec.Qual) != len(rec.Seq) {
		return record{}, errors.Errorf("fastq: record %q has %d bases but %d qualities", rec.ID, len(rec.Seq), len(rec.Qual))
	}
	return rec, nil
}

// maskLowQuality replaces bases whose Phred+33 quality is below minQuality
// with 'x', which the minimizer scanner treats as ambiguous.
func maskLowQuality(rec *record, minQuality int) {
	if minQuality <= 0 || rec.Qual == nil {
		return
	}
	for i, q := range rec.Qual {
		if int(q)-33 < minQuality {
			rec.Seq[i] = 'x'
		}
	}
}
