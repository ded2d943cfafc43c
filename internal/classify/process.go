package classify

import (
	"sync/atomic"

	"kr2r/internal/readcounts"
	"kr2r/internal/seqkmer"
)

// Verdicts.
const (
	Classified   = "C"
	Unclassified = "U"
)

// Result is the classification of one HitGroup.
type Result struct {
	Verdict    string
	ExternalID uint64
	HitString  string
	Counters   readcounts.TaxonCounters
}

// StatHits tallies the rows of hits into counts and counters and renders the
// positional hit string, mates joined by seqkmer.MateSeparator.
func StatHits(
	hits HitGroup,
	counts map[uint32]uint64,
	valueMask uint32,
	tax Taxonomy,
	counters readcounts.TaxonCounters,
) string {
	dists := seqkmer.MapPair(hits.Range, seqkmer.NewSpaceDist)
	for _, row := range hits.Rows {
		taxon := row.Value & valueMask
		counts[taxon]++
		counters.Entry(uint64(taxon)).AddKmer(row.Value)

		ext := tax.Node(taxon).ExternalID
		pos := int(row.KmerID)
		switch {
		case dists.First.Range.Contains(pos):
			dists.First.Add(ext, pos)
		case dists.Paired && dists.Second.Range.Contains(pos):
			dists.Second.Add(ext, pos)
		}
	}
	for _, d := range dists.Slice() {
		d.FillTailWithZeros()
	}
	return seqkmer.JoinSpaceDist(dists)
}

// ProcessHitGroup classifies one read or pair. A call is dropped to 0 when
// fewer than minimumHitGroups minimizer windows were considered. Classified
// reads bump classifiedCounter.
func ProcessHitGroup(
	hits HitGroup,
	tax Taxonomy,
	classifiedCounter *atomic.Uint64,
	requiredScore uint64,
	minimumHitGroups int,
	valueMask uint32,
) Result {
	counters := readcounts.TaxonCounters{}
	counts := make(map[uint32]uint64, len(hits.Rows))
	hitString := StatHits(hits, counts, valueMask, tax, counters)

	call := ResolveTree(counts, tax, requiredScore)
	if call > 0 && hits.Capacity() < minimumHitGroups {
		call = 0
	}

	res := Result{
		Verdict:    Unclassified,
		ExternalID: tax.Node(call).ExternalID,
		HitString:  hitString,
		Counters:   counters,
	}
	if call > 0 {
		classifiedCounter.Add(1)
		counters.Entry(uint64(call)).IncrementReadCount()
		res.Verdict = Classified
	}
	return res
}
