// Package databasetest writes small on-disk databases for tests.
package databasetest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"kr2r/internal/compact"
	"kr2r/internal/index"
	"kr2r/internal/seqkmer"
	"kr2r/internal/taxonomy"
)

// Reference genomes of the fixture. GenomeA belongs to taxid 300, GenomeB to
// taxid 400; both sit under taxid 100. Foreign matches nothing.
const (
	GenomeA = "ACGTTGCATGTCGCATGATGCATGAGAGCTCGTACGTAGCTAGCTAGCTTAGC"
	GenomeB = "TTGACCAGTAGGACCCATTAGGATCCAGGTTTCAACGGGTTACCAGTCAGTT"
	Foreign = "GGGCCCAAATTTGGCCAATTGGCACACGTGTGCAAGGTTCCAACCGGTTAA"
)

// Meros is the extraction scheme of the fixture.
func Meros(t testing.TB) seqkmer.Meros {
	t.Helper()
	m, err := seqkmer.NewMeros(15, 11, 0, seqkmer.DefaultToggleMask, 0)
	require.NoError(t, err)
	return m
}

// Taxonomy returns root(1) -> 100 -> {300, 400}, with names and ranks.
func Taxonomy(t testing.TB) *taxonomy.Taxonomy {
	t.Helper()
	names := []byte("root\x00Lineage\x00Alpha\x00Beta\x00")
	ranks := []byte("R\x00G\x00S\x00")
	tx, err := taxonomy.New([]taxonomy.Node{
		{},
		{ParentID: 0, ExternalID: 1, NameOffset: 0, RankOffset: 0, FirstChild: 2, ChildCount: 1},
		{ParentID: 1, ExternalID: 100, NameOffset: 5, RankOffset: 2, FirstChild: 3, ChildCount: 2},
		{ParentID: 2, ExternalID: 300, NameOffset: 13, RankOffset: 4},
		{ParentID: 2, ExternalID: 400, NameOffset: 19, RankOffset: 4},
	})
	require.NoError(t, err)
	return tx.WithNames(names, ranks)
}

// Table indexes every minimizer of GenomeA under node 3 and of GenomeB under node 4.
func Table(t testing.TB, m seqkmer.Meros) *compact.Table {
	t.Helper()
	tbl, err := compact.NewTable(4096, 16)
	require.NoError(t, err)
	for _, h := range seqkmer.Minimizers([]byte(GenomeA), m) {
		require.NoError(t, tbl.Insert(h, 3))
	}
	for _, h := range seqkmer.Minimizers([]byte(GenomeB), m) {
		require.NoError(t, tbl.Insert(h, 4))
	}
	return tbl
}

// Write stores the fixture database under a new temp directory and returns it.
func Write(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	m := Meros(t)

	require.NoError(t, index.FromMeros(m).WriteToFile(filepath.Join(dir, "opts.k2d")))

	var buf bytes.Buffer
	require.NoError(t, Taxonomy(t).Encode(&buf))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "taxo.k2d"), buf.Bytes(), 0o644))

	require.NoError(t, Table(t, m).WriteToFile(filepath.Join(dir, "hash.k2d")))
	return dir
}

// WriteReads writes a FASTA or FASTQ file (by the extension of name) in dir.
func WriteReads(t testing.TB, dir, name string, records ...[2]string) string {
	t.Helper()
	var b bytes.Buffer
	fastq := filepath.Ext(name) == ".fq"
	for _, r := range records {
		if fastq {
			b.WriteString("@" + r[0] + "\n" + r[1] + "\n+\n" + string(bytes.Repeat([]byte{'I'}, len(r[1]))) + "\n")
		} else {
			b.WriteString(">" + r[0] + "\n" + r[1] + "\n")
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
	return path
}
