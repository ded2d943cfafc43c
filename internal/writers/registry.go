// internal/writers/registry.go
package writers

import (
	"io"
	"sort"

	"github.com/pkg/errors"

	"kr2r/internal/classifier"
)

// StartFunc starts a writer goroutine.
type StartFunc func(out io.Writer, bufSize int) (chan<- classifier.Output, <-chan error)

// Output formats.
const (
	FormatText  = "text"
	FormatJSONL = "jsonl"
)

var registry = map[string]StartFunc{
	FormatText:  StartKrakenWriter,
	FormatJSONL: StartJSONLWriter,
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Start dispatches to the writer registered for format.
func Start(format string, out io.Writer, bufSize int) (chan<- classifier.Output, <-chan error, error) {
	fn, ok := registry[format]
	if !ok {
		return nil, nil, errors.Errorf("unknown output format %q (no writer registered)", format)
	}
	in, done := fn(out, bufSize)
	return in, done, nil
}
