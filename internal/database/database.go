// Package database opens a Kraken 2 database directory.
package database

import (
	"context"
	"path/filepath"
	"time"

	"github.com/outofforest/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kr2r/internal/compact"
	"kr2r/internal/index"
	"kr2r/internal/seqkmer"
	"kr2r/internal/taxonomy"
)

// File names inside a database directory.
const (
	OptionsFile  = "opts.k2d"
	TaxonomyFile = "taxo.k2d"
	HashFile     = "hash.k2d"
)

// ErrProteinDatabase is returned for translated-search databases.
var ErrProteinDatabase = errors.New("protein databases are not supported")

// Database is a loaded database. Close releases the table mapping.
type Database struct {
	Options  index.IndexOptions
	Meros    seqkmer.Meros
	Taxonomy *taxonomy.Taxonomy
	Table    *compact.Table
}

// Paths returns the three file paths of dir.
func Paths(dir string) (opts, taxo, hash string) {
	return filepath.Join(dir, OptionsFile), filepath.Join(dir, TaxonomyFile), filepath.Join(dir, HashFile)
}

// Open loads the three database files of dir concurrently and checks they
// agree with each other.
func Open(ctx context.Context, dir string) (*Database, error) {
	optsPath, taxoPath, hashPath := Paths(dir)
	start := time.Now()

	var db Database
	var g errgroup.Group
	g.Go(func() error {
		o, err := index.ReadIndexOptions(optsPath)
		if err != nil {
			return err
		}
		db.Options = o
		return nil
	})
	g.Go(func() error {
		t, err := taxonomy.Open(taxoPath)
		if err != nil {
			return err
		}
		db.Taxonomy = t
		return nil
	})
	g.Go(func() error {
		t, err := compact.Open(hashPath)
		if err != nil {
			return err
		}
		db.Table = t
		return nil
	})
	if err := g.Wait(); err != nil {
		if db.Table != nil {
			_ = db.Table.Close()
		}
		return nil, err
	}

	if err := db.validate(); err != nil {
		_ = db.Table.Close()
		return nil, err
	}

	logger.Get(ctx).Info("Database loaded",
		zap.String("dir", dir),
		zap.Int("taxa", db.Taxonomy.NodeCount()),
		zap.Uint64("capacity", db.Table.Config.Capacity),
		zap.Uint64("size", db.Table.Config.Size),
		zap.Duration("elapsed", time.Since(start)))
	return &db, nil
}

func (db *Database) validate() error {
	if !db.Options.DNADB {
		return errors.WithStack(ErrProteinDatabase)
	}
	m, err := db.Options.AsMeros()
	if err != nil {
		return errors.Wrap(err, "index options")
	}
	db.Meros = m

	if last := uint64(db.Taxonomy.NodeCount() - 1); last > uint64(db.Table.Config.ValueMask) {
		return errors.Wrapf(compact.ErrMalformedTable,
			"taxonomy has %d nodes but the table stores only %d value bits", last+1, db.Table.Config.ValueBits)
	}
	return nil
}

// Close releases the table.
func (db *Database) Close() error {
	return db.Table.Close()
}
