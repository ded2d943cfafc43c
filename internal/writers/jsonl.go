// internal/writers/jsonl.go
package writers

import (
	"io"
	"strings"

	"kr2r/internal/classifier"
	"kr2r/internal/jsonlutil"
	"kr2r/pkg/api"
)

// ToAPI converts a record to its v1 wire form.
func ToAPI(o classifier.Output) api.ClassificationV1 {
	return api.ClassificationV1{
		Status:     o.Verdict,
		ReadID:     o.ReadID,
		TaxID:      o.ExternalID,
		Length:     o.Length,
		Hits:       o.HitString,
		FileIndex:  o.FileIndex,
		ReadsIndex: o.ReadsIndex,
		Paired:     strings.Contains(o.Length, "|"),
	}
}

// StartJSONLWriter streams each record as one JSON line (v1).
func StartJSONLWriter(out io.Writer, bufSize int) (chan<- classifier.Output, <-chan error) {
	return jsonlutil.Start(out, bufSize, ToAPI, IsBrokenPipe)
}
