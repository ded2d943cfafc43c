package seqkmer

// MurmurHash3 is the 64-bit finalizer of MurmurHash3; minimizers are looked up by it.
func MurmurHash3(key uint64) uint64 {
	key ^= key >> 33
	key *= 0xff51afd7ed558ccd
	key ^= key >> 33
	key *= 0xc4ceb9fe1a85ec53
	key ^= key >> 33
	return key
}

func charToValue(c byte) (uint64, bool) {
	switch c {
	case 'A', 'a':
		return 0, true
	case 'C', 'c':
		return 1, true
	case 'G', 'g':
		return 2, true
	case 'T', 't':
		return 3, true
	}
	return 0, false
}

// reverseComplement of an n-base 2-bit encoded k-mer.
func reverseComplement(kmer uint64, n int) uint64 {
	kmer = ((kmer >> 2) & 0x3333333333333333) | ((kmer & 0x3333333333333333) << 2)
	kmer = ((kmer >> 4) & 0x0F0F0F0F0F0F0F0F) | ((kmer & 0x0F0F0F0F0F0F0F0F) << 4)
	kmer = ((kmer >> 8) & 0x00FF00FF00FF00FF) | ((kmer & 0x00FF00FF00FF00FF) << 8)
	kmer = ((kmer >> 16) & 0x0000FFFF0000FFFF) | ((kmer & 0x0000FFFF0000FFFF) << 16)
	kmer = (kmer >> 32) | (kmer << 32)
	shift := uint(64 - n*BitsPerChar)
	return (^kmer) >> shift
}

type candidate struct {
	value uint64
	pos   int
}

// Minimizers returns the hashed minimizer of every k-mer of seq, in order.
// Consecutive k-mers sharing a minimizer yield one entry; an ambiguous base
// restarts the window. The ordinal of an entry is its position in the slice.
func Minimizers(seq []byte, m Meros) []uint64 {
	w := m.WindowSize()
	out := make([]uint64, 0, len(seq)/w+1)

	var (
		lmer    uint64
		loaded  int
		idx     int
		queue   = make([]candidate, 0, 2*w)
		head    int
		last    uint64
		hasLast bool
	)
	for _, c := range seq {
		v, ok := charToValue(c)
		if !ok {
			lmer, loaded, idx = 0, 0, 0
			queue, head = queue[:0], 0
			hasLast = false
			continue
		}
		lmer = ((lmer << BitsPerChar) | v) & m.Mask
		if loaded < m.LMer {
			loaded++
			if loaded < m.LMer {
				continue
			}
		}

		cand := m.candidate(lmer)
		for len(queue) > head && queue[len(queue)-1].value > cand {
			queue = queue[:len(queue)-1]
		}
		queue = append(queue, candidate{value: cand, pos: idx})
		if queue[head].pos <= idx-w {
			head++
		}
		idx++
		if head > w {
			queue = append(queue[:0], queue[head:]...)
			head = 0
		}
		if idx < w {
			continue
		}

		minimizer := queue[head].value ^ m.ToggleMask
		if hasLast && minimizer == last {
			continue
		}
		last, hasLast = minimizer, true
		out = append(out, MurmurHash3(minimizer))
	}
	return out
}

// Marker is the scanned form of one mate.
type Marker struct {
	Minimizers []uint64
	SeqLen     int
}

// ScanSequence extracts minimizers for every mate of a record.
func ScanSequence(b Base[[]byte], m Meros) Base[Marker] {
	return MapBase(b, func(seq []byte) Marker {
		return Marker{Minimizers: Minimizers(seq, m), SeqLen: len(seq)}
	})
}
