package writers

import (
	"io"
	"syscall"

	"github.com/pkg/errors"
)

// IsBrokenPipe reports whether err means the reader of our output went away:
// EPIPE (e.g. `| head`), a closed io.Pipe, or a reset socket.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{syscall.EPIPE, syscall.ECONNRESET, io.ErrClosedPipe} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
