package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/sendcycle/sendcycle/pkg/logger"
)

// ChunkResult aggregates the outcome of one processing run
type ChunkResult struct {
	Success int
	Failure int
	Chunks  int
}

// ChunkFunc processes one chunk and reports how many items succeeded and
// failed. A returned error (or a panic) marks the whole chunk as failed;
// processing continues with the next chunk.
type ChunkFunc[T any] func(ctx context.Context, chunk []T) (success, failure int, err error)

// ChunkSource pulls the next batch of at most n items. It returns a nil or
// empty slice when the sequence is exhausted. Chunk boundaries are by count
// only.
type ChunkSource[T any] func(ctx context.Context, n int) ([]T, error)

// ChunkedProcessor drives a bounded-memory loop over a work list. One bad
// chunk never aborts the run, and a crashing chunk counts fully as failed
// rather than vanishing from the totals. Cancellation is observed at chunk
// boundaries: an in-flight chunk finishes, no new chunk starts.
type ChunkedProcessor[T any] struct {
	chunkSize     int
	pause         time.Duration
	progressEvery time.Duration
	logger        logger.Logger
}

// NewChunkedProcessor creates a processor with the given chunk size and
// optional inter-chunk pause (zero disables it)
func NewChunkedProcessor[T any](chunkSize int, pause time.Duration, log logger.Logger) *ChunkedProcessor[T] {
	if chunkSize <= 0 {
		chunkSize = 1
	}
	return &ChunkedProcessor[T]{
		chunkSize: chunkSize,
		pause:     pause,
		logger:    log,
	}
}

// WithProgressLogging makes long runs log cumulative totals at most once per
// interval, at chunk boundaries. Zero disables it.
func (p *ChunkedProcessor[T]) WithProgressLogging(interval time.Duration) *ChunkedProcessor[T] {
	p.progressEvery = interval
	return p
}

// Process partitions a pre-materialized list into consecutive chunks
func (p *ChunkedProcessor[T]) Process(ctx context.Context, items []T, fn ChunkFunc[T]) ChunkResult {
	var result ChunkResult
	progress := p.newProgressTracker()
	for start := 0; start < len(items); start += p.chunkSize {
		if ctx.Err() != nil {
			break
		}
		end := start + p.chunkSize
		if end > len(items) {
			end = len(items)
		}
		p.runChunk(ctx, items[start:end], fn, &result)
		progress.log(&result, len(items)-end)
		if p.pause > 0 && end < len(items) {
			time.Sleep(p.pause)
		}
	}
	return result
}

// ProcessSeq pulls chunks from a source until it is exhausted, for work
// lists too large to materialize. A source error ends the run; totals up to
// that point are returned along with the error.
func (p *ChunkedProcessor[T]) ProcessSeq(ctx context.Context, source ChunkSource[T], fn ChunkFunc[T]) (ChunkResult, error) {
	var result ChunkResult
	progress := p.newProgressTracker()
	for {
		if ctx.Err() != nil {
			return result, nil
		}
		chunk, err := source(ctx, p.chunkSize)
		if err != nil {
			return result, err
		}
		if len(chunk) == 0 {
			return result, nil
		}
		p.runChunk(ctx, chunk, fn, &result)
		progress.log(&result, -1)
		if p.pause > 0 {
			time.Sleep(p.pause)
		}
	}
}

// progressTracker rate-limits the in-flight progress log
type progressTracker struct {
	every   time.Duration
	logger  logger.Logger
	started time.Time
	lastLog time.Time
}

func (p *ChunkedProcessor[T]) newProgressTracker() *progressTracker {
	now := time.Now()
	return &progressTracker{every: p.progressEvery, logger: p.logger, started: now, lastLog: now}
}

// log emits cumulative totals when the interval has elapsed. remaining below
// zero means the total is unknown (a pulled sequence).
func (t *progressTracker) log(result *ChunkResult, remaining int) {
	if t.every <= 0 || time.Since(t.lastLog) < t.every {
		return
	}
	t.lastLog = time.Now()
	fields := map[string]interface{}{
		"chunks":  result.Chunks,
		"success": result.Success,
		"failure": result.Failure,
		"elapsed": time.Since(t.started).Round(time.Millisecond).String(),
	}
	if remaining >= 0 {
		fields["remaining"] = remaining
	}
	t.logger.WithFields(fields).Info("Chunk processing progress")
}

func (p *ChunkedProcessor[T]) runChunk(ctx context.Context, chunk []T, fn ChunkFunc[T], result *ChunkResult) {
	result.Chunks++
	success, failure, err := p.invoke(ctx, chunk, fn)
	if err != nil {
		// Whole chunk counts as failed
		result.Failure += len(chunk)
		p.logger.WithFields(map[string]interface{}{
			"chunk":      result.Chunks,
			"chunk_size": len(chunk),
			"error":      err.Error(),
		}).Error("Chunk processing failed")
		return
	}
	result.Success += success
	result.Failure += failure
}

// invoke wraps the chunk function with panic recovery so one crashing chunk
// cannot take down the pass
func (p *ChunkedProcessor[T]) invoke(ctx context.Context, chunk []T, fn ChunkFunc[T]) (success, failure int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chunk panicked: %v", r)
		}
	}()
	return fn(ctx, chunk)
}
