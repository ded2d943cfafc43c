package seqkmer

import (
	"github.com/pkg/errors"
)

// Kraken 2 defaults for DNA databases.
const (
	DefaultKmerLength      = 35
	DefaultMinimizerLength = 31
	DefaultMinimizerSpaces = 7

	DefaultToggleMask uint64 = 0xe37e28c4271b5a2d

	// CurrentRevcomVersion identifies the reverse-complement algorithm used when
	// canonicalising l-mers. Databases built with another version are incompatible.
	CurrentRevcomVersion = 1

	// BitsPerChar is the width of one encoded nucleotide.
	BitsPerChar = 2

	maxMinimizerLength = 31
)

// Meros is the k-mer/minimizer extraction scheme.
// Zero SpacedSeedMask, ToggleMask or MinClearHashValue means unset.
type Meros struct {
	KMer              int
	LMer              int
	Mask              uint64
	SpacedSeedMask    uint64
	ToggleMask        uint64
	MinClearHashValue uint64
}

// NewMeros validates the lengths and derives the l-mer mask.
func NewMeros(k, l int, spacedSeedMask, toggleMask, minClearHashValue uint64) (Meros, error) {
	if l <= 0 || l > maxMinimizerLength {
		return Meros{}, errors.Errorf("minimizer length %d out of range [1, %d]", l, maxMinimizerLength)
	}
	if k < l {
		return Meros{}, errors.Errorf("k-mer length %d is shorter than minimizer length %d", k, l)
	}
	mask := uint64(1)<<(uint(l)*BitsPerChar) - 1
	return Meros{
		KMer:              k,
		LMer:              l,
		Mask:              mask,
		SpacedSeedMask:    spacedSeedMask,
		ToggleMask:        toggleMask & mask,
		MinClearHashValue: minClearHashValue,
	}, nil
}

// WindowSize is the number of l-mers in one k-mer.
func (m Meros) WindowSize() int {
	return m.KMer - m.LMer + 1
}

func (m Meros) candidate(lmer uint64) uint64 {
	c := lmer
	if rc := reverseComplement(lmer, m.LMer); rc < c {
		c = rc
	}
	if m.SpacedSeedMask != 0 {
		c &= m.SpacedSeedMask
	}
	return c ^ m.ToggleMask
}
