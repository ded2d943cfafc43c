// internal/cliutil/cliutil.go
package cliutil

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// ExpandPositionals expands any globs among path-like positionals. Matches of
// one pattern are sorted, so mate files pair up as R1, R2, R1, R2...
func ExpandPositionals(posArgs []string) ([]string, error) {
	var out []string
	for _, a := range posArgs {
		if a == "-" || !hasGlobMeta(a) {
			out = append(out, a)
			continue
		}
		m, err := filepath.Glob(a)
		if err != nil {
			return nil, errors.Wrapf(err, "bad glob %q", a)
		}
		if len(m) == 0 {
			return nil, errors.Errorf("no input matched %q", a)
		}
		out = append(out, m...)
	}
	return out, nil
}
