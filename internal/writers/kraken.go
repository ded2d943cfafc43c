package writers

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"kr2r/internal/classifier"
)

// AppendKrakenLine appends the tab-separated Kraken line for o:
// verdict, read id, taxid, length, hit string.
func AppendKrakenLine(dst []byte, o classifier.Output) []byte {
	dst = append(dst, o.Verdict...)
	dst = append(dst, '\t')
	dst = append(dst, o.ReadID...)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, o.ExternalID, 10)
	dst = append(dst, '\t')
	dst = append(dst, o.Length...)
	dst = append(dst, '\t')
	dst = append(dst, o.HitString...)
	return append(dst, '\n')
}

// StartKrakenWriter streams records as Kraken output lines.
func StartKrakenWriter(out io.Writer, bufSize int) (chan<- classifier.Output, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan classifier.Output, bufSize)
	errCh := make(chan error, 1)

	go func() {
		bw := bufio.NewWriterSize(out, 64<<10)
		line := make([]byte, 0, 256)
		var err error
		for o := range in {
			if err != nil {
				continue
			}
			line = AppendKrakenLine(line[:0], o)
			_, err = bw.Write(line)
		}
		if err == nil {
			err = bw.Flush()
		}
		if err != nil && !IsBrokenPipe(err) {
			errCh <- errors.Wrap(err, "writing kraken output")
			return
		}
		errCh <- nil
	}()

	return in, errCh
}
