// internal/jsonlutil/jsonlutil.go
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/pkg/errors"
)

var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// Start spins up a JSONL encoder goroutine for values of type T.
//   - toWire: converts a value to its wire type
//   - isBroken: recognizer for broken/closed pipe errors to suppress them
//
// After a failed write the goroutine keeps draining the input so senders never
// block; the first error is reported once the input is closed.
func Start[T, W any](out io.Writer, bufSize int, toWire func(T) W, isBroken func(error) bool) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		var err error
		for v := range in {
			if err != nil {
				continue
			}
			err = enc.Encode(toWire(v))
		}
		if err == nil {
			err = bw.Flush()
		}
		if err != nil && !isBroken(err) {
			done <- errors.Wrap(err, "writing jsonl")
			return
		}
		done <- nil
	}()

	return in, done
}
