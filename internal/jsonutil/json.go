// internal/jsonutil/json.go
package jsonutil

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// EncodePretty writes v as indented JSON to w, followed by a newline.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding json")
}
