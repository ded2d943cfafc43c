package seqkmer

import (
	"strconv"
	"strings"
)

// Range is a left-open, right-closed span (Start, End] of minimizer ordinals.
type Range struct {
	Start int
	End   int
}

// Len is the number of ordinals in the range.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether pos lies in (Start, End].
func (r Range) Contains(pos int) bool { return pos > r.Start && pos <= r.End }

type run struct {
	ext   uint64
	count int
}

// SpaceDist accumulates the run-length hit layout of one mate.
type SpaceDist struct {
	Range Range
	runs  []run
	last  int
}

// NewSpaceDist creates an empty accumulator over r.
func NewSpaceDist(r Range) *SpaceDist {
	return &SpaceDist{Range: r, last: r.Start}
}

func (d *SpaceDist) push(ext uint64, n int) {
	if k := len(d.runs); k > 0 && d.runs[k-1].ext == ext {
		d.runs[k-1].count += n
		return
	}
	d.runs = append(d.runs, run{ext: ext, count: n})
}

// Add records a hit on ext at pos. Positions outside the range or not past the
// previous one are ignored.
func (d *SpaceDist) Add(ext uint64, pos int) {
	if pos <= d.last || pos > d.Range.End {
		return
	}
	if gap := pos - d.last - 1; gap > 0 {
		d.push(0, gap)
	}
	d.push(ext, 1)
	d.last = pos
}

// FillTailWithZeros pads the positions after the last hit with external id 0.
func (d *SpaceDist) FillTailWithZeros() {
	if d.last < d.Range.End {
		d.push(0, d.Range.End-d.last)
		d.last = d.Range.End
	}
}

// String renders the runs as "ext:len" tokens separated by spaces.
func (d *SpaceDist) String() string {
	var sb strings.Builder
	for i, r := range d.runs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatUint(r.ext, 10))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(r.count))
	}
	return sb.String()
}

// MateSeparator joins the annotations of the two mates.
const MateSeparator = " |:| "

// JoinSpaceDist renders every mate and joins them with MateSeparator.
func JoinSpaceDist(p OptionPair[*SpaceDist]) string {
	if p.Paired {
		return p.First.String() + MateSeparator + p.Second.String()
	}
	return p.First.String()
}
