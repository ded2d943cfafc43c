package cliutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"s_R2.fq", "s_R1.fq", "other.fa"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("@a\nA\n+\nI\n"), 0o644))
	}
	got, err := ExpandPositionals([]string{filepath.Join(dir, "s_R*.fq"), "-", "literal.fq"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "s_R1.fq"),
		filepath.Join(dir, "s_R2.fq"),
		"-",
		"literal.fq",
	}, got)
}

func TestExpandPositionalsNoMatch(t *testing.T) {
	_, err := ExpandPositionals([]string{filepath.Join(t.TempDir(), "*.fq")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input matched")
}
