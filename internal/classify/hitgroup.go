// Package classify turns the table hits of one read or pair into a
// taxonomic call.
package classify

import (
	"math"

	"kr2r/internal/compact"
	"kr2r/internal/seqkmer"
)

// HitGroup is the unit of classification work: the rows of one read or pair
// and the minimizer ordinal range of each mate.
type HitGroup struct {
	Rows  []compact.Row
	Range seqkmer.OptionPair[seqkmer.Range]
}

// NewHitGroup wraps rows and ranges.
func NewHitGroup(rows []compact.Row, ranges seqkmer.OptionPair[seqkmer.Range]) HitGroup {
	return HitGroup{Rows: rows, Range: ranges}
}

// Capacity is the number of minimizer windows considered, hit or not.
func (h HitGroup) Capacity() int {
	return seqkmer.ReducePair(h.Range, 0, func(acc int, r seqkmer.Range) int { return acc + r.Len() })
}

// RequiredScore is ceil(confidenceThreshold * Capacity()).
func (h HitGroup) RequiredScore(confidenceThreshold float64) uint64 {
	return uint64(math.Ceil(confidenceThreshold * float64(h.Capacity())))
}
