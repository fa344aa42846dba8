// Package stats aggregates run-wide counters from concurrent scan
// workers: the read-length histogram, progress counters, and the two
// opt-in extras supplemented from kvarq's workhorse.c (nucleotide
// composition and the quality-threshold sweep) that spec.md's
// distillation dropped but the original engine always computed.
package stats

import (
	"sync"
	"sync/atomic"
)

// MaxReadLength bounds the read-length histogram; reads longer than
// this are bucketed into the final slot rather than growing the
// histogram unbounded, mirroring the fixed-size rls buffer in
// workhorse.c's init_stats.
const MaxReadLength = 1024

// AMinSteps is the number of quality thresholds probed on either side
// of the configured a_min when Config.TrackQualitySweep is enabled,
// matching workhorse.c's AMIN_STEPS.
const AMinSteps = 5

// Composition holds nucleotide counts accumulated across every parsed
// record's untrimmed bases.
type Composition struct {
	A, C, G, T, N, Other int64
}

// Stats is an immutable snapshot of everything an Aggregator has
// counted so far, plus the byte-progress numbers a caller supplies
// from the FastqStream it paired with this Aggregator.
type Stats struct {
	ReadLengths   [MaxReadLength]int64
	LongestRead   int
	SeqHits       []int64
	SeqBaseHits   []int64
	RecordsParsed int64
	Parsed        int64
	Total         int64
	Sigints       int32
	Composition   *Composition
	QualitySweep  [][MaxReadLength]int64 // nil unless tracking was enabled
}

// Aggregator accumulates per-record statistics across concurrent
// workers. Every exported method is safe for concurrent use.
type Aggregator struct {
	mu          sync.Mutex
	readLengths [MaxReadLength]int64
	longest     int

	recordsParsed atomic.Int64
	sigints       atomic.Int32

	trackComposition bool
	compMu           sync.Mutex
	composition      Composition

	trackSweep bool
	sweepMu    sync.Mutex
	sweep      [2 * AMinSteps][MaxReadLength]int64
}

// NewAggregator returns an empty Aggregator. trackComposition and
// trackSweep gate the two supplemented, opt-in extras.
func NewAggregator(trackComposition, trackSweep bool) *Aggregator {
	return &Aggregator{trackComposition: trackComposition, trackSweep: trackSweep}
}

// AddReadLength folds one trimmed read's length into the histogram.
func (a *Aggregator) AddReadLength(rl int) {
	idx := rl
	if idx >= MaxReadLength {
		idx = MaxReadLength - 1
	}
	a.mu.Lock()
	if idx >= 0 {
		a.readLengths[idx]++
	}
	if rl > a.longest {
		a.longest = rl
	}
	a.mu.Unlock()
}

// AddRecords folds n freshly-parsed records into the running total.
func (a *Aggregator) AddRecords(n int64) { a.recordsParsed.Add(n) }

// AddSigint records one SIGINT observed during the scan.
func (a *Aggregator) AddSigint() { a.sigints.Add(1) }

// AddComposition folds one record's untrimmed bases into the
// nucleotide composition counters, a no-op unless tracking is on.
func (a *Aggregator) AddComposition(bases []byte) {
	if !a.trackComposition {
		return
	}
	var c Composition
	for _, b := range bases {
		switch b {
		case 'A', 'a':
			c.A++
		case 'C', 'c':
			c.C++
		case 'G', 'g':
			c.G++
		case 'T', 't':
			c.T++
		case 'N', 'n':
			c.N++
		default:
			c.Other++
		}
	}
	a.compMu.Lock()
	a.composition.A += c.A
	a.composition.C += c.C
	a.composition.G += c.G
	a.composition.T += c.T
	a.composition.N += c.N
	a.composition.Other += c.Other
	a.compMu.Unlock()
}

// AddQualitySweep mirrors analyse_record's all_rls_buf sweep: for
// 2*AMinSteps thresholds centered on aMin (AMinSteps below, AMinSteps
// above), it records what the longest-run trim length would have
// been had that threshold been used instead, without a second pass
// over the file. A no-op unless tracking is on.
func (a *Aggregator) AddQualitySweep(quality []byte, aMin byte) {
	if !a.trackSweep {
		return
	}
	var lengths [2 * AMinSteps]int
	for step := 0; step < 2*AMinSteps; step++ {
		var delta int
		if step < AMinSteps {
			delta = -(AMinSteps - step)
		} else {
			delta = step - AMinSteps + 1
		}
		t := int(aMin) + delta
		if t < 0 {
			t = 0
		}
		if t > 255 {
			t = 255
		}
		lengths[step] = longestRunAtThreshold(quality, byte(t))
	}

	a.sweepMu.Lock()
	for step, rl := range lengths {
		idx := rl
		if idx >= MaxReadLength {
			idx = MaxReadLength - 1
		}
		if idx >= 0 {
			a.sweep[step][idx]++
		}
	}
	a.sweepMu.Unlock()
}

func longestRunAtThreshold(quality []byte, threshold byte) int {
	best, cur := 0, 0
	for _, q := range quality {
		if q >= threshold {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	return best
}

// Snapshot composes a point-in-time Stats, folding in the
// byte-progress and per-reference hit counters a caller owns
// elsewhere (FastqStream and hitsink.Sink respectively).
func (a *Aggregator) Snapshot(parsed, total int64, seqHits, seqBaseHits []int64) Stats {
	a.mu.Lock()
	s := Stats{
		ReadLengths: a.readLengths,
		LongestRead: a.longest,
	}
	a.mu.Unlock()

	s.SeqHits = append([]int64(nil), seqHits...)
	s.SeqBaseHits = append([]int64(nil), seqBaseHits...)
	s.RecordsParsed = a.recordsParsed.Load()
	s.Parsed = parsed
	s.Total = total
	s.Sigints = a.sigints.Load()

	if a.trackComposition {
		a.compMu.Lock()
		c := a.composition
		a.compMu.Unlock()
		s.Composition = &c
	}
	if a.trackSweep {
		a.sweepMu.Lock()
		sweep := a.sweep
		a.sweepMu.Unlock()
		s.QualitySweep = make([][MaxReadLength]int64, len(sweep))
		copy(s.QualitySweep, sweep[:])
	}

	return s
}
