package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/outofforest/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kr2r/internal/database/databasetest"
	"kr2r/internal/index"
)

func newContext() context.Context {
	return logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig))
}

func TestOpen(t *testing.T) {
	dir := databasetest.Write(t)
	db, err := Open(newContext(), dir)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, databasetest.Meros(t), db.Meros)
	assert.Equal(t, 5, db.Taxonomy.NodeCount())
	assert.Equal(t, "Beta", db.Taxonomy.Name(4))
	assert.Equal(t, uint64(4096), db.Table.Config.Capacity)
	assert.NotZero(t, db.Table.Config.Size)
}

func TestOpenMissingFile(t *testing.T) {
	dir := databasetest.Write(t)
	require.NoError(t, os.Remove(filepath.Join(dir, TaxonomyFile)))
	_, err := Open(newContext(), dir)
	assert.Error(t, err)
}

func TestOpenRejectsProteinDatabase(t *testing.T) {
	dir := databasetest.Write(t)
	opts := index.FromMeros(databasetest.Meros(t))
	opts.DNADB = false
	require.NoError(t, opts.WriteToFile(filepath.Join(dir, OptionsFile)))

	_, err := Open(newContext(), dir)
	assert.True(t, errors.Is(err, ErrProteinDatabase))
}

func TestOpenRejectsIncompatibleVersion(t *testing.T) {
	dir := databasetest.Write(t)
	opts := index.FromMeros(databasetest.Meros(t))
	opts.RevcomVersion = 0
	require.NoError(t, opts.WriteToFile(filepath.Join(dir, OptionsFile)))

	_, err := Open(newContext(), dir)
	assert.True(t, errors.Is(err, index.ErrIncompatibleVersion))
}
