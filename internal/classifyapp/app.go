// internal/classifyapp/app.go
package classifyapp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/outofforest/logger"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"kr2r/internal/classifier"
	"kr2r/internal/cli"
	"kr2r/internal/database"
	"kr2r/internal/metrics"
	"kr2r/internal/pipeline"
	"kr2r/internal/seqkmer"
	"kr2r/internal/version"
	"kr2r/internal/writers"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitUsage       = 2
	ExitRuntime     = 3
	ExitInterrupted = 130
)

const name = "kr2r-classify"

// flushUsage prints the usage of fs to out and maps write failures to an exit code.
func flushUsage(fs *pflag.FlagSet, out *bufio.Writer, stderr io.Writer, code int) int {
	e := cli.WriteUsage(out, name, cli.ClassifySynopsis, fs)
	if e == nil {
		e = out.Flush()
	}
	if writers.IsBrokenPipe(e) {
		return code
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return ExitRuntime
	}
	return code
}

// RunContext is kr2r-classify: argument parsing, database loading, the
// classification pipeline and output.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet(name)

	opts, err := cli.ParseClassifyArgs(fs, argv)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return flushUsage(fs, outw, stderr, ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, err)
		return flushUsage(fs, outw, stderr, ExitUsage)
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return ExitOK
	}

	if err := Classify(ctx, opts, outw); err != nil {
		return exitCode(ctx, err, stderr)
	}
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
		_, _ = fmt.Fprintln(stderr, e)
		return ExitRuntime
	}
	return ExitOK
}

func exitCode(ctx context.Context, err error, stderr io.Writer) int {
	switch {
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		return ExitInterrupted
	case errors.Is(err, pipeline.ErrThreadCount):
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	default:
		logger.Get(ctx).Error("Classification failed", zap.Error(err))
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return ExitRuntime
	}
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	bw := bufio.NewWriterSize(f, 64<<10)
	return bw, func() error {
		if err := bw.Flush(); err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "writing %q", path)
		}
		return errors.WithStack(f.Close())
	}, nil
}

// Classify runs one classification with already validated options, writing
// records to stdout unless opts.OutputFile names a file.
func Classify(ctx context.Context, opts cli.ClassifyOptions, stdout io.Writer) error {
	log := logger.Get(ctx)
	start := time.Now()

	db, err := database.Open(ctx, opts.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	sets, err := seqkmer.GroupPaths(opts.Inputs, opts.Paired)
	if err != nil {
		return err
	}
	reader := seqkmer.NewFileSetReader(sets, seqkmer.ReaderOptions{
		BatchSize:  opts.BatchSize,
		MinQuality: opts.MinimumBaseQuality,
	})
	defer reader.Close()

	out, closeOut, err := openOutput(opts.OutputFile, stdout)
	if err != nil {
		return err
	}

	in, writeErr, err := writers.Start(opts.Output, out, opts.Threads*4)
	if err != nil {
		_ = closeOut()
		return err
	}

	m := metrics.NewClassify()
	c := classifier.New(db.Table, db.Taxonomy, db.Meros, classifier.Config{
		Confidence:       opts.Confidence,
		MinimumHitGroups: opts.MinimumHitGroups,
	}).WithObserver(m)

	summary, runErr := c.Run(ctx, reader, opts.Threads, func(o classifier.Output) error {
		select {
		case in <- o:
			return nil
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		}
	})
	close(in)

	werr := <-writeErr
	cerr := closeOut()
	switch {
	case runErr != nil:
		return runErr
	case werr != nil:
		return werr
	case cerr != nil && !writers.IsBrokenPipe(cerr):
		return cerr
	}

	elapsed := time.Since(start)
	log.Info("Run summary",
		zap.Uint64("sequences", summary.Sequences),
		zap.Uint64("classified", summary.Classified),
		zap.Uint64("unclassified", summary.Unclassified),
		zap.Float64("classifiedPct", percent(summary.Classified, summary.Sequences)),
		zap.Duration("elapsed", elapsed))

	if opts.MetricsFile != "" {
		return m.WriteTextfile(opts.MetricsFile)
	}
	return nil
}

func percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}
