// Package classifier wires sequence batches through table lookup and
// taxonomic resolution.
package classifier

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/outofforest/logger"
	"go.uber.org/zap"

	"kr2r/internal/classify"
	"kr2r/internal/compact"
	"kr2r/internal/pipeline"
	"kr2r/internal/readcounts"
	"kr2r/internal/seqkmer"
	"kr2r/internal/taxonomy"
)

// Config holds the per-run classification thresholds.
type Config struct {
	Confidence       float64 // fraction of minimizer windows the call must explain
	MinimumHitGroups int
}

// Output is the classification record of one read or pair.
type Output struct {
	Verdict    string
	ReadID     string
	FileIndex  int
	ReadsIndex uint64
	ExternalID uint64
	Length     string // "n" for single reads, "n1|n2" for pairs
	HitString  string
}

// BatchResult is what one worker produces for one batch.
type BatchResult struct {
	Outputs  []Output
	Counters readcounts.TaxonCounters
}

// Summary totals a finished run.
type Summary struct {
	Sequences    uint64
	Classified   uint64
	Unclassified uint64
	Counters     readcounts.TaxonCounters
}

// BatchObserver is told about every classified batch, from worker goroutines.
type BatchObserver interface {
	ObserveBatch(records, classified int, elapsed time.Duration)
}

// Classifier is shared by all workers; its lookups are read-only.
type Classifier struct {
	table      *compact.Table
	tax        *taxonomy.Taxonomy
	meros      seqkmer.Meros
	cfg        Config
	observer   BatchObserver
	classified atomic.Uint64
}

// New creates a classifier over a loaded database.
func New(table *compact.Table, tax *taxonomy.Taxonomy, meros seqkmer.Meros, cfg Config) *Classifier {
	// Cells naming taxa outside tax are misses, not crashes.
	table.SetTaxonLimit(uint32(tax.NodeCount()))
	return &Classifier{table: table, tax: tax, meros: meros, cfg: cfg}
}

// WithObserver installs o; nil removes it.
func (c *Classifier) WithObserver(o BatchObserver) *Classifier {
	c.observer = o
	return c
}

// Classified is the number of reads classified so far across all workers.
func (c *Classifier) Classified() uint64 { return c.classified.Load() }

func seqLength(body seqkmer.OptionPair[seqkmer.Marker]) string {
	l := strconv.Itoa(body.First.SeqLen)
	if body.Paired {
		l += "|" + strconv.Itoa(body.Second.SeqLen)
	}
	return l
}

// ClassifyRecord classifies one scanned read or pair.
func (c *Classifier) ClassifyRecord(rec seqkmer.Base[seqkmer.Marker]) (Output, readcounts.TaxonCounters) {
	mins := seqkmer.MapPair(rec.Body, func(m seqkmer.Marker) []uint64 { return m.Minimizers })
	rows, ranges := c.table.Lookup(mins, c.meros.MinClearHashValue)
	hits := classify.NewHitGroup(rows, ranges)

	res := classify.ProcessHitGroup(hits, c.tax, &c.classified,
		hits.RequiredScore(c.cfg.Confidence), c.cfg.MinimumHitGroups, c.table.Config.ValueMask)

	return Output{
		Verdict:    res.Verdict,
		ReadID:     rec.Header.ID,
		FileIndex:  rec.Header.FileIndex,
		ReadsIndex: rec.Header.ReadsIndex,
		ExternalID: res.ExternalID,
		Length:     seqLength(rec.Body),
		HitString:  res.HitString,
	}, res.Counters
}

func countClassified(outputs []Output) int {
	n := 0
	for _, o := range outputs {
		if o.Verdict == classify.Classified {
			n++
		}
	}
	return n
}

// ClassifyBatch is the pipeline work function.
func (c *Classifier) ClassifyBatch(batch pipeline.Batch) BatchResult {
	start := time.Now()
	out := BatchResult{
		Outputs:  make([]Output, 0, len(batch)),
		Counters: readcounts.TaxonCounters{},
	}
	for _, rec := range batch {
		o, counters := c.ClassifyRecord(rec)
		out.Outputs = append(out.Outputs, o)
		out.Counters.Merge(counters)
	}
	if c.observer != nil {
		c.observer.ObserveBatch(len(out.Outputs), countClassified(out.Outputs), time.Since(start))
	}
	return out
}

// Run classifies everything reader yields on nThreads goroutines and passes
// each record to emit. The first emit error cancels reading and
// classification and is returned; Summary then covers only the batches
// consumed up to that point.
func (c *Classifier) Run(ctx context.Context, reader seqkmer.Reader, nThreads int, emit func(Output) error) (Summary, error) {
	summary := Summary{Counters: readcounts.TaxonCounters{}}
	var emitErr error

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	err := pipeline.ReadParallel(runCtx, reader, nThreads, c.meros, c.ClassifyBatch,
		func(res *pipeline.Result[BatchResult]) {
			for {
				br, ok := res.Next()
				if !ok {
					return
				}
				summary.Sequences += uint64(len(br.Outputs))
				summary.Classified += uint64(countClassified(br.Outputs))
				summary.Counters.Merge(br.Counters)
				for _, o := range br.Outputs {
					if emitErr = emit(o); emitErr != nil {
						// Stops the reader and workers; in-flight batches are drained unread.
						cancel()
						return
					}
				}
			}
		})

	summary.Unclassified = summary.Sequences - summary.Classified
	if emitErr != nil {
		return summary, emitErr
	}
	if err != nil {
		return summary, err
	}

	logger.Get(ctx).Debug("Classification finished",
		zap.Uint64("sequences", summary.Sequences),
		zap.Uint64("classified", summary.Classified),
		zap.Uint64("unclassified", summary.Unclassified),
		zap.Int("taxa", len(summary.Counters)))
	return summary, nil
}
