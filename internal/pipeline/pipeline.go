// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"kr2r/internal/seqkmer"
)

// ErrThreadCount is returned when the thread budget cannot hold a producer,
// a consumer and at least one worker.
var ErrThreadCount = errors.New("thread count must be greater than 2")

// Batch is one worker's input: the scanned minimizers of every record of a batch.
type Batch = []seqkmer.Base[seqkmer.Marker]

// Result is the pull iterator handed to the consumer.
type Result[O any] struct {
	recv <-chan O
}

// Next blocks until an output is available. It returns false once every
// worker has exited and all outputs were consumed.
func (r *Result[O]) Next() (O, bool) {
	o, ok := <-r.recv
	return o, ok
}

func (r *Result[O]) drain() {
	for range r.recv {
	}
}

// ReadParallel runs work over every batch of reader on nThreads-2 workers and
// feeds the outputs to consume in completion order. Every output, including
// zero values, reaches consume exactly once. Both queues hold nThreads+2
// items so the producer blocks once workers fall behind.
//
// It returns the first error of the reader, or ctx's error on cancellation.
func ReadParallel[O any](
	ctx context.Context,
	reader seqkmer.Reader,
	nThreads int,
	meros seqkmer.Meros,
	work func(Batch) O,
	consume func(*Result[O]),
) error {
	if nThreads <= 2 {
		return errors.Wrapf(ErrThreadCount, "got %d", nThreads)
	}
	bufferLen := nThreads + 2
	workers := nThreads - 2

	batches := make(chan []seqkmer.Base[[]byte], bufferLen)
	outputs := make(chan O, bufferLen)
	var aliveWorkers atomic.Int32
	aliveWorkers.Store(int32(workers))

	log := logger.Get(ctx)
	log.Debug("Pipeline started", zap.Int("workers", workers), zap.Int("buffer", bufferLen))

	var produced, delivered atomic.Uint64
	err := parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("producer", parallel.Continue, func(ctx context.Context) error {
			defer close(batches)
			for {
				seqs, err := reader.Next()
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				select {
				case batches <- seqs:
					produced.Add(1)
				case <-ctx.Done():
					return errors.WithStack(ctx.Err())
				}
			}
		})

		for i := 0; i < workers; i++ {
			spawn(fmt.Sprintf("worker-%02d", i), parallel.Continue, func(ctx context.Context) error {
				defer func() {
					if aliveWorkers.Add(-1) == 0 {
						close(outputs)
					}
				}()
				for {
					var seqs []seqkmer.Base[[]byte]
					select {
					case s, ok := <-batches:
						if !ok {
							return nil
						}
						seqs = s
					case <-ctx.Done():
						return errors.WithStack(ctx.Err())
					}

					markers := make(Batch, 0, len(seqs))
					for _, seq := range seqs {
						markers = append(markers, seqkmer.ScanSequence(seq, meros))
					}
					out := work(markers)

					select {
					case outputs <- out:
						delivered.Add(1)
					case <-ctx.Done():
						return errors.WithStack(ctx.Err())
					}
				}
			})
		}

		spawn("consumer", parallel.Continue, func(ctx context.Context) error {
			res := &Result[O]{recv: outputs}
			consume(res)
			res.drain()
			return nil
		})
		return nil
	})

	log.Debug("Pipeline finished",
		zap.Uint64("batches", produced.Load()),
		zap.Uint64("outputs", delivered.Load()),
		zap.Error(err))
	return err
}
