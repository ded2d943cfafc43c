package index

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"kr2r/internal/seqkmer"
)

// ConstructSeedTemplate builds the spaced-seed pattern for a minimizer: a run
// of significant positions followed by `spaces` "01" pairs.
func ConstructSeedTemplate(minimizerLen, minimizerSpaces int) (string, error) {
	if minimizerLen/4 < minimizerSpaces {
		return "", errors.Errorf("number of minimizer spaces (%d) exceeds max for minimizer len (%d); max: %d",
			minimizerSpaces, minimizerLen, minimizerLen/4)
	}
	return strings.Repeat("1", minimizerLen-2*minimizerSpaces) + strings.Repeat("01", minimizerSpaces), nil
}

// ParseBinary parses a string of 0s and 1s.
func ParseBinary(src string) (uint64, error) {
	v, err := strconv.ParseUint(src, 2, 64)
	return v, errors.WithStack(err)
}

// ExpandSpacedSeedMask widens every template bit to one encoded nucleotide.
func ExpandSpacedSeedMask(template uint64, minimizerLen int) uint64 {
	var mask uint64
	for i := minimizerLen - 1; i >= 0; i-- {
		mask <<= seqkmer.BitsPerChar
		if template>>uint(i)&1 == 1 {
			mask |= 1<<seqkmer.BitsPerChar - 1
		}
	}
	return mask
}

// SpacedSeedMask returns the nucleotide-level mask for l and spaces; 0 spaces means no mask.
func SpacedSeedMask(minimizerLen, minimizerSpaces int) (uint64, error) {
	if minimizerSpaces == 0 {
		return 0, nil
	}
	tmpl, err := ConstructSeedTemplate(minimizerLen, minimizerSpaces)
	if err != nil {
		return 0, err
	}
	bits, err := ParseBinary(tmpl)
	if err != nil {
		return 0, err
	}
	return ExpandSpacedSeedMask(bits, minimizerLen), nil
}
