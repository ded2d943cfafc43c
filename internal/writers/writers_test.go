package writers

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kr2r/internal/classifier"
	"kr2r/pkg/api"
)

var sample = []classifier.Output{
	{Verdict: "C", ReadID: "r1", ExternalID: 562, Length: "150", HitString: "562:10 0:5"},
	{Verdict: "U", ReadID: "r2", ExternalID: 0, Length: "100|98", HitString: "0:60 |:| 0:58", ReadsIndex: 1},
}

func run(t *testing.T, format string, out io.Writer) error {
	t.Helper()
	in, done, err := Start(format, out, 1)
	require.NoError(t, err)
	for _, o := range sample {
		in <- o
	}
	close(in)
	return <-done
}

func TestKrakenWriter(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, run(t, FormatText, &b))
	assert.Equal(t,
		"C\tr1\t562\t150\t562:10 0:5\n"+
			"U\tr2\t0\t100|98\t0:60 |:| 0:58\n",
		b.String())
}

func TestJSONLWriter(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, run(t, FormatJSONL, &b))

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 2)

	var got api.ClassificationV1
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &got))
	assert.Equal(t, api.ClassificationV1{
		Status: "U", ReadID: "r2", Length: "100|98", Hits: "0:60 |:| 0:58",
		ReadsIndex: 1, Paired: true,
	}, got)
	assert.NotContains(t, lines[0], "paired")
}

func TestUnknownFormat(t *testing.T) {
	_, _, err := Start("nope-format", io.Discard, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
	assert.Equal(t, []string{"jsonl", "text"}, Formats())
}

type failWriter struct{ err error }

func (w failWriter) Write([]byte) (int, error) { return 0, w.err }

func TestBrokenPipeIsSilent(t *testing.T) {
	for _, f := range Formats() {
		assert.NoError(t, run(t, f, failWriter{syscall.EPIPE}), f)
	}
	err := run(t, FormatText, failWriter{errors.New("disk full")})
	assert.Error(t, err)
}

func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, IsBrokenPipe(errors.Wrap(syscall.EPIPE, "write")))
	assert.True(t, IsBrokenPipe(io.ErrClosedPipe))
	assert.True(t, IsBrokenPipe(syscall.ECONNRESET))
	assert.False(t, IsBrokenPipe(nil))
	assert.False(t, IsBrokenPipe(io.EOF))
}
