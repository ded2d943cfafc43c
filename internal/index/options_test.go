package index

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kr2r/internal/seqkmer"
)

func sample() IndexOptions {
	o := New(35, 31, 0x3fffffffc3fff, seqkmer.DefaultToggleMask, true, 17)
	o.DBVersion = 2
	o.DBType = -1
	return o
}

func TestRoundTripFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "opts.k2d")
	want := sample()
	require.NoError(t, want.WriteToFile(fn))

	st, err := os.Stat(fn)
	require.NoError(t, err)
	assert.Equal(t, int64(RecordSize), st.Size())

	got, err := ReadIndexOptions(fn)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLayout(t *testing.T) {
	b, err := sample().MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, RecordSize)

	assert.Equal(t, []byte{35, 0, 0, 0, 0, 0, 0, 0}, b[0:8])
	assert.Equal(t, []byte{31, 0, 0, 0, 0, 0, 0, 0}, b[8:16])
	assert.Equal(t, byte(1), b[32])
	assert.Equal(t, make([]byte, 7), b[33:40])
	assert.Equal(t, []byte{17, 0, 0, 0, 0, 0, 0, 0}, b[40:48])
	assert.Equal(t, []byte{1, 0, 0, 0}, b[48:52])
	assert.Equal(t, []byte{2, 0, 0, 0}, b[52:56])
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, b[56:60])
	assert.Equal(t, make([]byte, 4), b[60:64])
}

func TestIncompatibleVersion(t *testing.T) {
	o := sample()
	o.RevcomVersion = 0
	b, err := o.MarshalBinary()
	require.NoError(t, err)

	_, err = Decode(bytes.NewReader(b))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompatibleVersion))

	fn := filepath.Join(t.TempDir(), "opts.k2d")
	require.NoError(t, o.WriteToFile(fn))
	_, err = ReadIndexOptions(fn)
	assert.True(t, errors.Is(err, ErrIncompatibleVersion))
}

func TestShortRead(t *testing.T) {
	b, err := sample().MarshalBinary()
	require.NoError(t, err)

	for _, n := range []int{0, 1, RecordSize - 1} {
		_, err := Decode(bytes.NewReader(b[:n]))
		assert.True(t, errors.Is(err, ErrMalformedHeader), "len %d", n)
	}
}

func TestMissingFile(t *testing.T) {
	_, err := ReadIndexOptions(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMerosConversion(t *testing.T) {
	m, err := seqkmer.NewMeros(35, 31, 0, seqkmer.DefaultToggleMask, 0)
	require.NoError(t, err)

	o := FromMeros(m)
	assert.True(t, o.DNADB)
	assert.Equal(t, int32(seqkmer.CurrentRevcomVersion), o.RevcomVersion)

	back, err := o.AsMeros()
	require.NoError(t, err)
	assert.Equal(t, m, back)
}
