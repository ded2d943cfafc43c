package taxonomy

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// FileMagic opens every taxo.k2d file.
const FileMagic = "K2TAXDAT"

const (
	nodeSize   = 7 * 8
	headerSize = 3 * 8
)

var (
	// ErrBadMagic is returned for files that are not Kraken 2 taxonomies.
	ErrBadMagic = errors.New("taxonomy file has bad magic")

	// ErrMalformed is returned when the header lengths cannot describe the file.
	ErrMalformed = errors.New("malformed taxonomy file")
)

type header struct {
	nodeCount, nameLen, rankLen uint64
}

// size returns the total file size the header describes.
func (h header) size() (int64, error) {
	const fixed = uint64(len(FileMagic) + headerSize)
	if h.nodeCount > (math.MaxInt64-fixed)/nodeSize {
		return 0, errors.Wrapf(ErrMalformed, "node count %d too large", h.nodeCount)
	}
	total := fixed + h.nodeCount*nodeSize
	if h.nameLen > math.MaxInt64-total {
		return 0, errors.Wrapf(ErrMalformed, "name blob length %d too large", h.nameLen)
	}
	total += h.nameLen
	if h.rankLen > math.MaxInt64-total {
		return 0, errors.Wrapf(ErrMalformed, "rank blob length %d too large", h.rankLen)
	}
	return int64(total + h.rankLen), nil
}

// Open reads a taxo.k2d file.
func Open(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	t, err := openFile(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading taxonomy %q", path)
	}
	return t, nil
}

func openFile(f *os.File) (*Taxonomy, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	r := bufio.NewReader(f)
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	want, err := h.size()
	if err != nil {
		return nil, err
	}
	if want != fi.Size() {
		return nil, errors.Wrapf(ErrMalformed, "header describes %d bytes, file has %d", want, fi.Size())
	}
	return decodeBody(r, h)
}

// Decode parses the taxo.k2d layout: magic, node count, name and rank blob
// lengths (u64 each), the nodes, then the blobs.
func Decode(r io.Reader) (*Taxonomy, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if _, err := h.size(); err != nil {
		return nil, err
	}
	return decodeBody(r, h)
}

func readHeader(r io.Reader) (header, error) {
	magic := make([]byte, len(FileMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return header{}, errors.WithStack(err)
	}
	if string(magic) != FileMagic {
		return header{}, errors.Wrapf(ErrBadMagic, "got %q", magic)
	}

	var hdr [3]uint64
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return header{}, errors.Wrap(err, "reading header")
	}
	if hdr[0] == 0 {
		return header{}, errors.New("taxonomy has no nodes")
	}
	return header{nodeCount: hdr[0], nameLen: hdr[1], rankLen: hdr[2]}, nil
}

// readBlob reads exactly n bytes, growing the buffer only as data arrives.
func readBlob(r io.Reader, n uint64, what string) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", what)
	}
	if uint64(len(b)) != n {
		return nil, errors.Wrapf(io.ErrUnexpectedEOF, "reading %s: got %d of %d bytes", what, len(b), n)
	}
	return b, nil
}

// decodeBody expects h to have passed size.
func decodeBody(r io.Reader, h header) (*Taxonomy, error) {
	raw, err := readBlob(r, h.nodeCount*nodeSize, "nodes")
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, len(raw)/nodeSize)
	le := binary.LittleEndian
	for i := range nodes {
		b := raw[i*nodeSize:]
		nodes[i] = Node{
			ParentID:    le.Uint64(b[0:]),
			FirstChild:  le.Uint64(b[8:]),
			ChildCount:  le.Uint64(b[16:]),
			NameOffset:  le.Uint64(b[24:]),
			RankOffset:  le.Uint64(b[32:]),
			ExternalID:  le.Uint64(b[40:]),
			GodparentID: le.Uint64(b[48:]),
		}
	}

	t, err := New(nodes)
	if err != nil {
		return nil, err
	}
	if t.nameData, err = readBlob(r, h.nameLen, "names"); err != nil {
		return nil, err
	}
	if t.rankData, err = readBlob(r, h.rankLen, "ranks"); err != nil {
		return nil, err
	}
	return t, nil
}

// Encode writes t in the taxo.k2d layout.
func (t *Taxonomy) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(FileMagic); err != nil {
		return errors.WithStack(err)
	}
	hdr := [3]uint64{uint64(len(t.Nodes)), uint64(len(t.nameData)), uint64(len(t.rankData))}
	if err := binary.Write(bw, binary.LittleEndian, hdr); err != nil {
		return errors.WithStack(err)
	}
	if err := binary.Write(bw, binary.LittleEndian, t.Nodes); err != nil {
		return errors.WithStack(err)
	}
	if _, err := bw.Write(t.nameData); err != nil {
		return errors.WithStack(err)
	}
	if _, err := bw.Write(t.rankData); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(bw.Flush())
}

// WithNames attaches NUL-separated name and rank blobs addressed by the node offsets.
func (t *Taxonomy) WithNames(nameData, rankData []byte) *Taxonomy {
	t.nameData = nameData
	t.rankData = rankData
	return t
}
