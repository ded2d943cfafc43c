// Package taxonomy is a read-only arena of taxonomy nodes addressed by index.
//
// Node 0 is the unclassified sentinel. Nodes are stored in breadth-first
// order so every parent index is smaller than its children's, which keeps
// ancestor tests and LCA walks to a few parent hops.
package taxonomy

import (
	"bytes"

	"github.com/pkg/errors"
)

// Node is one taxonomy entry in the Kraken 2 on-disk layout.
type Node struct {
	ParentID    uint64
	FirstChild  uint64
	ChildCount  uint64
	NameOffset  uint64
	RankOffset  uint64
	ExternalID  uint64
	GodparentID uint64
}

// Taxonomy is safe for concurrent readers.
type Taxonomy struct {
	Nodes    []Node
	nameData []byte
	rankData []byte
}

// New builds a taxonomy from nodes. Node 0 must be the sentinel and every
// other node must have a smaller parent index.
func New(nodes []Node) (*Taxonomy, error) {
	if len(nodes) == 0 {
		return nil, errors.New("taxonomy has no nodes")
	}
	for i := 1; i < len(nodes); i++ {
		if p := nodes[i].ParentID; p >= uint64(i) {
			return nil, errors.Errorf("node %d has parent %d not preceding it", i, p)
		}
	}
	return &Taxonomy{Nodes: nodes}, nil
}

// NodeCount is the number of nodes including the sentinel.
func (t *Taxonomy) NodeCount() int { return len(t.Nodes) }

// Node returns the node at idx.
func (t *Taxonomy) Node(idx uint32) Node { return t.Nodes[idx] }

// Parent returns the parent index of idx.
func (t *Taxonomy) Parent(idx uint32) uint32 { return uint32(t.Nodes[idx].ParentID) }

// ExternalID maps a node index to its external taxonomy id.
func (t *Taxonomy) ExternalID(idx uint32) uint64 { return t.Nodes[idx].ExternalID }

// IsAAncestorOfB reports whether a is b or one of b's ancestors. Node 0 is
// never an ancestor.
func (t *Taxonomy) IsAAncestorOfB(a, b uint32) bool {
	if a == 0 || b == 0 {
		return false
	}
	for b > a {
		b = uint32(t.Nodes[b].ParentID)
	}
	return b == a
}

// LCA returns the lowest common ancestor of a and b; 0 acts as identity.
func (t *Taxonomy) LCA(a, b uint32) uint32 {
	if a == 0 || b == 0 {
		if a != 0 {
			return a
		}
		return b
	}
	for a != b {
		if a > b {
			a = uint32(t.Nodes[a].ParentID)
		} else {
			b = uint32(t.Nodes[b].ParentID)
		}
	}
	return a
}

// Name returns the scientific name of idx, or "" when names were not loaded.
func (t *Taxonomy) Name(idx uint32) string {
	return cString(t.nameData, t.Nodes[idx].NameOffset)
}

// Rank returns the rank of idx, or "" when ranks were not loaded.
func (t *Taxonomy) Rank(idx uint32) string {
	return cString(t.rankData, t.Nodes[idx].RankOffset)
}

func cString(data []byte, off uint64) string {
	if off >= uint64(len(data)) {
		return ""
	}
	s := data[off:]
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return string(s)
}

// ExternalToInternal builds a reverse lookup from external ids to node indices.
func (t *Taxonomy) ExternalToInternal() map[uint64]uint32 {
	m := make(map[uint64]uint32, len(t.Nodes))
	for i := 1; i < len(t.Nodes); i++ {
		m[t.Nodes[i].ExternalID] = uint32(i)
	}
	return m
}
