// internal/inspectapp/app.go
package inspectapp

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/outofforest/logger"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"kr2r/internal/cli"
	"kr2r/internal/compact"
	"kr2r/internal/database"
	"kr2r/internal/index"
	"kr2r/internal/jsonutil"
	"kr2r/internal/taxonomy"
	"kr2r/internal/version"
	"kr2r/internal/writers"
	"kr2r/pkg/api"
)

// Report is what kr2r-inspect prints about a database.
type Report struct {
	Options  index.IndexOptions
	Taxonomy *taxonomy.Taxonomy
	Hash     compact.HashConfig
}

// Load reads the options, the taxonomy and the table header of dir. The
// table itself is not mapped.
func Load(dir string) (Report, error) {
	optsPath, taxoPath, hashPath := database.Paths(dir)
	var r Report
	var err error
	if r.Options, err = index.ReadIndexOptions(optsPath); err != nil {
		return r, err
	}
	if r.Taxonomy, err = taxonomy.Open(taxoPath); err != nil {
		return r, err
	}
	if r.Hash, err = compact.ReadHashConfig(hashPath); err != nil {
		return r, err
	}
	return r, nil
}

// Write prints the summary of r and, with taxa, one line per taxonomy node:
// internal id, external id, parent external id, rank, name.
func (r Report) Write(w io.Writer, taxa bool) error {
	o := r.Options
	lines := []string{
		fmt.Sprintf("index options:\tk=%d l=%d spaced_seed_mask=%#x toggle_mask=%#x dna_db=%t min_hash=%d revcom_version=%d db_version=%d db_type=%d",
			o.K, o.L, o.SpacedSeedMask, o.ToggleMask, o.DNADB, o.MinimumAcceptableHashValue, o.RevcomVersion, o.DBVersion, o.DBType),
		fmt.Sprintf("taxonomy nodes:\t%d", r.Taxonomy.NodeCount()),
		fmt.Sprintf("compact hash table:\tcapacity=%d size=%d key_bits=%d value_bits=%d load=%.3f",
			r.Hash.Capacity, r.Hash.Size, r.Hash.KeyBits, r.Hash.ValueBits, float64(r.Hash.Size)/float64(r.Hash.Capacity)),
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return errors.WithStack(err)
		}
	}
	if !taxa {
		return nil
	}
	for i := 1; i < r.Taxonomy.NodeCount(); i++ {
		idx := uint32(i)
		n := r.Taxonomy.Node(idx)
		parent := r.Taxonomy.ExternalID(uint32(n.ParentID))
		if _, err := fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n",
			idx, n.ExternalID, parent, r.Taxonomy.Rank(idx), r.Taxonomy.Name(idx)); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// ToAPI converts r to its v1 wire form.
func (r Report) ToAPI(taxa bool) api.DatabaseV1 {
	o := r.Options
	out := api.DatabaseV1{
		Options: api.IndexOptionsV1{
			K: o.K, L: o.L, SpacedSeedMask: o.SpacedSeedMask, ToggleMask: o.ToggleMask,
			DNADB: o.DNADB, MinimumAcceptableHashValue: o.MinimumAcceptableHashValue,
			RevcomVersion: o.RevcomVersion, DBVersion: o.DBVersion, DBType: o.DBType,
		},
		Taxonomy: api.TaxonomyV1{NodeCount: r.Taxonomy.NodeCount()},
		Hash: api.HashConfigV1{
			Capacity: r.Hash.Capacity, Size: r.Hash.Size, KeyBits: r.Hash.KeyBits, ValueBits: r.Hash.ValueBits,
		},
	}
	if !taxa {
		return out
	}
	for i := 1; i < r.Taxonomy.NodeCount(); i++ {
		idx := uint32(i)
		n := r.Taxonomy.Node(idx)
		out.Taxonomy.Nodes = append(out.Taxonomy.Nodes, api.TaxonNodeV1{
			ID:       idx,
			TaxID:    n.ExternalID,
			ParentID: r.Taxonomy.ExternalID(uint32(n.ParentID)),
			Rank:     r.Taxonomy.Rank(idx),
			Name:     r.Taxonomy.Name(idx),
		})
	}
	return out
}

const name = "kr2r-inspect"

// RunContext is kr2r-inspect.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := cli.NewFlagSet(name)

	opts, err := cli.ParseInspectArgs(fs, argv)
	code := 0
	switch {
	case errors.Is(err, pflag.ErrHelp):
		err = cli.WriteUsage(outw, name, cli.InspectSynopsis, fs)
	case err != nil:
		_, _ = fmt.Fprintln(stderr, err)
		err = cli.WriteUsage(outw, name, cli.InspectSynopsis, fs)
		code = 2
	case opts.Version:
		_, err = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
	default:
		report, lerr := Load(opts.DB)
		if lerr != nil {
			logger.Get(ctx).Error("Cannot read database", zap.String("dir", opts.DB), zap.Error(lerr))
			_, _ = fmt.Fprintln(stderr, "error:", lerr)
			return 3
		}
		if opts.JSON {
			err = jsonutil.EncodePretty(outw, report.ToAPI(opts.Taxa))
		} else {
			err = report.Write(outw, opts.Taxa)
		}
	}
	if err == nil {
		err = outw.Flush()
	}
	if err != nil && !writers.IsBrokenPipe(err) && code == 0 {
		_, _ = fmt.Fprintln(stderr, err)
		return 3
	}
	return code
}
