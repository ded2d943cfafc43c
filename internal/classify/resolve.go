package classify

import (
	"kr2r/internal/taxonomy"
)

// Taxonomy is the read-only tree view used for resolution.
type Taxonomy interface {
	IsAAncestorOfB(a, b uint32) bool
	LCA(a, b uint32) uint32
	Node(idx uint32) taxonomy.Node
	NodeCount() int
}

func cladeScore(hitCounts map[uint32]uint64, tax Taxonomy, taxon uint32) uint64 {
	var score uint64
	for t, count := range hitCounts {
		if tax.IsAAncestorOfB(taxon, t) {
			score += count
		}
	}
	return score
}

// ResolveTree picks the taxon whose clade collects the most hits, then walks
// up until the leader reaches requiredScore. It returns 0 when no node does.
//
// An exact score tie replaces the leader with the LCA of both candidates;
// the score of that LCA is not recomputed.
func ResolveTree(hitCounts map[uint32]uint64, tax Taxonomy, requiredScore uint64) uint32 {
	var (
		maxTaxon uint32
		maxScore uint64
	)
	for taxon := range hitCounts {
		score := cladeScore(hitCounts, tax, taxon)
		if score > maxScore {
			maxScore = score
			maxTaxon = taxon
		} else if score == maxScore {
			maxTaxon = tax.LCA(maxTaxon, taxon)
		}
	}

	maxScore = hitCounts[maxTaxon]
	for maxTaxon != 0 && maxScore < requiredScore {
		maxScore = cladeScore(hitCounts, tax, maxTaxon)
		if maxScore >= requiredScore {
			break
		}
		maxTaxon = uint32(tax.Node(maxTaxon).ParentID)
	}
	return maxTaxon
}
