// Package scanner wires fastqio, match, hitsink, and stats together
// behind one public Engine, the way sfletc-scramTrimmer's
// ProcessReadsFast is the single entry point callers use instead of
// touching its worker/trim/write pieces directly.
package scanner

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sfletc/fastqscan/errs"
	"github.com/sfletc/fastqscan/fastqio"
	"github.com/sfletc/fastqscan/hitsink"
	"github.com/sfletc/fastqscan/match"
	"github.com/sfletc/fastqscan/stats"
)

// Engine runs one scan at a time against a mutable Config, matching
// spec.md §6's external interface.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	running bool

	// liveStream, liveSink and liveAgg back Stats() while a scan is
	// in progress, so a caller can poll for a progress report without
	// waiting on FindSequences to return.
	liveStream *fastqio.Stream
	liveSink   *hitsink.Sink
	liveAgg    *stats.Aggregator

	cancel atomic.Bool

	log *logrus.Entry
}

// NewEngine returns an Engine ready to run with cfg.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg: cfg,
		log: logrus.WithField("component", "fastqscan.engine"),
	}
}

// Configure replaces the engine's configuration for future calls to
// FindSequences. It has no effect on a scan already in progress.
func (e *Engine) Configure(cfg Config) {
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()
}

// Config returns a copy of the engine's current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Stats returns a point-in-time snapshot of the scan currently in
// progress. It is safe to call from any goroutine, concurrently with
// FindSequences, for progress reporting. When no scan is running
// (before the first one, or after FindSequences has returned) it
// returns a zero Stats; a finished scan's figures are in Result.Stats.
func (e *Engine) Stats() stats.Stats {
	e.mu.Lock()
	stream, sink, agg := e.liveStream, e.liveSink, e.liveAgg
	e.mu.Unlock()
	if stream == nil || sink == nil || agg == nil {
		return stats.Stats{}
	}
	return agg.Snapshot(stream.Parsed(), stream.Total(), sink.SeqHits(), sink.SeqBaseHits())
}

// Stop requests cooperative cancellation of any in-progress scan, or
// pre-arms cancellation of the next FindSequences call if none is
// running yet. Workers observe it at the next chunk boundary; partial
// results already merged into the result's hit sink are preserved.
func (e *Engine) Stop() {
	e.cancel.Store(true)
}

// Result is the outcome of one FindSequences call.
type Result struct {
	Hits      []hitsink.Hit
	HitSeqs   [][]byte
	Stats     stats.Stats
	Cancelled bool
}

// FindSequences scans every file in paths for approximate matches of
// every sequence in references, per spec.md §4 and §6. It returns
// errs.ErrBusy immediately if the engine is already running a scan.
//
// Cancellation — via ctx, Stop(), or SIGINT — ends the scan at the
// next chunk boundary and returns the partial Result with
// Result.Cancelled set, rather than as an error: a cooperative stop is
// not itself a failure.
func (e *Engine) FindSequences(ctx context.Context, paths []string, references [][]byte) (Result, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return Result{}, errs.ErrBusy
	}
	e.running = true
	cfg := e.cfg
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	if len(paths) == 0 {
		return Result{}, errors.New("fastqscan: at least one input path is required")
	}
	if len(references) == 0 {
		return Result{}, errors.New("fastqscan: at least one reference sequence is required")
	}
	for i, ref := range references {
		if len(ref) == 0 {
			return Result{}, errors.Errorf("fastqscan: reference %d is empty", i)
		}
	}

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	nThreads := cfg.NThreads
	if nThreads < 1 {
		nThreads = 1
	}

	stream, err := fastqio.NewStream(paths)
	if err != nil {
		return Result{}, err
	}

	sink := hitsink.New(len(references), cfg.MaxHits)
	agg := stats.NewAggregator(cfg.TrackComposition, cfg.TrackQualitySweep)

	e.mu.Lock()
	e.liveStream, e.liveSink, e.liveAgg = stream, sink, agg
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.liveStream, e.liveSink, e.liveAgg = nil, nil, nil
		e.mu.Unlock()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	sigDone := make(chan struct{})
	go func() {
		for {
			select {
			case <-sigCh:
				agg.AddSigint()
				e.cancel.Store(true)
			case <-sigDone:
				return
			}
		}
	}()

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error
	setErr := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			e.cancel.Store(true)
		})
	}

	e.log.WithFields(logrus.Fields{
		"threads":    nThreads,
		"paths":      len(paths),
		"references": len(references),
	}).Info("scan starting")
	start := time.Now()

	for w := 0; w < nThreads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.runWorker(ctx, stream, references, cfg, sink, agg, setErr)
		}()
	}
	wg.Wait()

	signal.Stop(sigCh)
	close(sigDone)

	cancelled := e.cancel.Load() && firstErr == nil
	e.cancel.Store(false)

	if firstErr != nil {
		e.log.WithError(firstErr).Warn("scan aborted")
		return Result{}, firstErr
	}

	snap := agg.Snapshot(stream.Parsed(), stream.Total(), sink.SeqHits(), sink.SeqBaseHits())
	e.log.WithFields(logrus.Fields{
		"duration": time.Since(start),
		"records":  snap.RecordsParsed,
		"hits":     sink.Len(),
		"cancelled": cancelled,
	}).Info("scan finished")

	return Result{
		Hits:      sink.Hits(),
		HitSeqs:   sink.HitSeqs(),
		Stats:     snap,
		Cancelled: cancelled,
	}, nil
}

// runWorker is one goroutine's share of the shared work: pull a chunk,
// parse every record in it, match each quality-trimmed read against
// every reference, and fold hits into the shared sink.
func (e *Engine) runWorker(
	ctx context.Context,
	stream *fastqio.Stream,
	references [][]byte,
	cfg Config,
	sink *hitsink.Sink,
	agg *stats.Aggregator,
	setErr func(error),
) {
	buf := make([]byte, cfg.ChunkSize)
	batch := hitsink.NewBatch(len(references))
	defer func() {
		if err := sink.Merge(batch); err != nil {
			setErr(err)
		}
	}()

	for {
		if e.cancel.Load() {
			return
		}
		select {
		case <-ctx.Done():
			e.cancel.Store(true)
			return
		default:
		}

		n, base, err := stream.NextChunk(buf)
		if err != nil {
			if err != io.EOF {
				setErr(err)
			}
			return
		}

		parser := fastqio.NewParser(buf[:n], base, cfg.AMin)
		var recs int64
		for {
			rec, trimmed, ok, perr := parser.Next()
			if perr != nil {
				setErr(perr)
				return
			}
			if !ok {
				break
			}
			recs++

			rl := len(trimmed.Bases)
			agg.AddReadLength(rl)
			agg.AddComposition(rec.Bases)
			agg.AddQualitySweep(rec.Quality, cfg.AMin)

			if rl < cfg.MinReadLength {
				continue
			}

			for seqNr, ref := range references {
				match.Find(trimmed.Bases, ref, cfg.MaxErrors, cfg.MinOverlap, func(spos, length int, hitseq []byte) {
					batch.Add(seqNr, trimmed.FilePos, spos, length, rl, hitseq)
				})
			}
		}
		agg.AddRecords(recs)

		if err := sink.Merge(batch); err != nil {
			setErr(err)
			return
		}
	}
}
