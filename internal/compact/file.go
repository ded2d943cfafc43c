package compact

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ReadHashConfig reads only the header of a table file.
func ReadHashConfig(path string) (HashConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return HashConfig{}, errors.WithStack(err)
	}
	defer f.Close()

	hdr := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, hdr); err != nil {
		return HashConfig{}, errors.Wrapf(ErrMalformedTable, "reading header of %q: %v", path, err)
	}
	return decodeHeader(hdr)
}

func decodeHeader(hdr []byte) (HashConfig, error) {
	le := binary.LittleEndian
	capacity, size, keyBits, valueBits := le.Uint64(hdr[0:]), le.Uint64(hdr[8:]), le.Uint64(hdr[16:]), le.Uint64(hdr[24:])
	cfg, err := NewHashConfig(capacity, size, valueBits)
	if err != nil {
		return HashConfig{}, err
	}
	if keyBits != cfg.KeyBits {
		return HashConfig{}, errors.Wrapf(ErrMalformedTable, "key bits %d + value bits %d != 32", keyBits, valueBits)
	}
	return cfg, nil
}

// Open maps a hash.k2d file read-only.
func Open(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if st.Size() < HeaderSize {
		return nil, errors.Wrapf(ErrMalformedTable, "%q is %d bytes", path, st.Size())
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "memory mapping %q failed", path)
	}
	cfg, err := decodeHeader(data[:HeaderSize])
	if err != nil {
		_ = unix.Munmap(data)
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	if want := HeaderSize + cfg.Capacity*cellSize; uint64(len(data)) != want {
		_ = unix.Munmap(data)
		return nil, errors.Wrapf(ErrMalformedTable, "%q is %d bytes, header implies %d", path, len(data), want)
	}

	return &Table{
		Config: cfg,
		cells:  data[HeaderSize:],
		close: func() error {
			return errors.WithStack(unix.Munmap(data))
		},
	}, nil
}

// WriteToFile writes the table in the hash.k2d layout.
func (t *Table) WriteToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	hdr := make([]byte, HeaderSize)
	le := binary.LittleEndian
	le.PutUint64(hdr[0:], t.Config.Capacity)
	le.PutUint64(hdr[8:], t.Config.Size)
	le.PutUint64(hdr[16:], t.Config.KeyBits)
	le.PutUint64(hdr[24:], t.Config.ValueBits)
	if _, err := f.Write(hdr); err != nil {
		_ = f.Close()
		return errors.WithStack(err)
	}
	if _, err := f.Write(t.cells); err != nil {
		_ = f.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Close())
}
