package inspectapp

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/outofforest/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kr2r/internal/database/databasetest"
	"kr2r/pkg/api"
)

func run(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	ctx := logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig))
	var stdout, stderr bytes.Buffer
	code := RunContext(ctx, argv, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestInspect(t *testing.T) {
	db := databasetest.Write(t)
	code, out, stderr := run(t, db)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, out, "k=15 l=11 ")
	assert.Contains(t, out, "dna_db=true")
	assert.Contains(t, out, "revcom_version=1")
	assert.Contains(t, out, "taxonomy nodes:\t5\n")
	assert.Contains(t, out, "capacity=4096 ")
	assert.Contains(t, out, "value_bits=16 ")
	assert.NotContains(t, out, "Beta")
}

func TestInspectTaxa(t *testing.T) {
	db := databasetest.Write(t)
	code, out, _ := run(t, "--taxa", "-d", db)
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3+4)
	assert.Equal(t, "1\t1\t0\tR\troot", lines[3])
	assert.Equal(t, "4\t400\t100\tS\tBeta", lines[6])
}

func TestInspectJSON(t *testing.T) {
	db := databasetest.Write(t)
	code, out, _ := run(t, "--json", "--taxa", db)
	require.Equal(t, 0, code)

	var got api.DatabaseV1
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, uint64(15), got.Options.K)
	assert.Equal(t, int32(1), got.Options.RevcomVersion)
	assert.Equal(t, 5, got.Taxonomy.NodeCount)
	require.Len(t, got.Taxonomy.Nodes, 4)
	assert.Equal(t, api.TaxonNodeV1{ID: 3, TaxID: 300, ParentID: 100, Rank: "S", Name: "Alpha"}, got.Taxonomy.Nodes[2])
	assert.Equal(t, uint64(16), got.Hash.ValueBits)
}

func TestInspectErrors(t *testing.T) {
	code, _, stderr := run(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--db is required")

	db := databasetest.Write(t)
	require.NoError(t, os.Truncate(filepath.Join(db, "opts.k2d"), 10))
	code, _, stderr = run(t, db)
	assert.Equal(t, 3, code)
	assert.Contains(t, stderr, "malformed")

	code, out, _ := run(t, "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage: kr2r-inspect")
}
