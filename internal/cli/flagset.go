package cli

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"kr2r/internal/version"
)

// NewFlagSet returns a clean FlagSet with ContinueOnError. Parse errors are
// returned, never printed; callers print help with WriteUsage.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// WriteUsage prints the help text of a tool: header, synopsis and flag table.
func WriteUsage(w io.Writer, name, synopsis string, fs *pflag.FlagSet) error {
	_, err := fmt.Fprintf(w, "%s: Kraken 2 compatible taxonomic classifier\n\nVersion: %s\n\n%s\n\nFlags:\n%s",
		name, version.Version, synopsis, fs.FlagUsages())
	return errors.WithStack(err)
}
