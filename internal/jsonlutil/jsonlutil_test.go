package jsonlutil

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wire struct {
	N int `json:"n"`
}

func never(error) bool { return false }

func TestStartEncodesLines(t *testing.T) {
	var b bytes.Buffer
	in, done := Start(&b, 1, func(n int) wire { return wire{N: n} }, never)
	for i := 1; i <= 3; i++ {
		in <- i
	}
	close(in)
	require.NoError(t, <-done)
	assert.Equal(t, "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n", b.String())
}

type failWriter struct{ err error }

func (w failWriter) Write([]byte) (int, error) { return 0, w.err }

func TestStartSuppressesBrokenPipe(t *testing.T) {
	in, done := Start(failWriter{io.ErrClosedPipe}, 1, func(n int) wire { return wire{N: n} },
		func(err error) bool { return errors.Is(err, io.ErrClosedPipe) })
	in <- 1
	close(in)
	assert.NoError(t, <-done)
}

func TestStartReportsWriteError(t *testing.T) {
	boom := errors.New("disk full")
	in, done := Start(failWriter{boom}, 1, func(n int) wire { return wire{N: n} }, never)
	in <- 1
	close(in)
	err := <-done
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}
