// Package hitsink collects match hits from concurrent scan workers
// into one ordered, query-able store. Each worker accumulates into its
// own Batch and periodically folds it into the shared Sink under a
// single short critical section, rather than taking the Sink's lock
// per hit — the same per-worker-buffer-then-merge shape
// sfletc-scramTrimmer's processBatch uses for its trimmed-read counts.
package hitsink

import (
	"sync"

	"github.com/sfletc/fastqscan/errs"
)

// Hit is one approximate match between a read and a reference
// sequence, positioned both in the input file and in the reference.
type Hit struct {
	SeqNr      int
	FilePos    int64
	SeqPos     int
	Length     int
	ReadLength int
}

// Sink is the shared, mutex-guarded store of every hit found across
// all workers plus the running per-reference totals from spec.md
// §4.5 (SeqHits, SeqBaseHits).
type Sink struct {
	mu          sync.Mutex
	hits        []Hit
	hitSeqs     [][]byte
	seqHits     []int64
	seqBaseHits []int64
	maxHits     int
}

// New returns a Sink sized for nSeqs reference sequences. maxHits
// caps the total number of hits retained before Merge starts
// reporting errs.ErrOutOfMemory; 0 means unbounded.
func New(nSeqs int, maxHits int) *Sink {
	return &Sink{
		seqHits:     make([]int64, nSeqs),
		seqBaseHits: make([]int64, nSeqs),
		maxHits:     maxHits,
	}
}

// Batch is a worker-local accumulator. Workers call Add for every hit
// found while scanning one chunk, then hand the batch to Sink.Merge.
// A Batch is reused across chunks — Merge clears it in place.
type Batch struct {
	hits     []Hit
	hitSeqs  [][]byte
	baseHits []int64
	counts   []int64
}

// NewBatch returns an empty Batch sized for nSeqs reference sequences.
func NewBatch(nSeqs int) *Batch {
	return &Batch{baseHits: make([]int64, nSeqs), counts: make([]int64, nSeqs)}
}

// Add records one hit in the batch, copying hitSeq since it normally
// aliases a chunk buffer a worker is about to reuse.
func (b *Batch) Add(seqNr int, filePos int64, seqPos, length, readLength int, hitSeq []byte) {
	owned := make([]byte, len(hitSeq))
	copy(owned, hitSeq)
	b.hits = append(b.hits, Hit{SeqNr: seqNr, FilePos: filePos, SeqPos: seqPos, Length: length, ReadLength: readLength})
	b.hitSeqs = append(b.hitSeqs, owned)
	b.baseHits[seqNr] += int64(length)
	b.counts[seqNr]++
}

// Len reports the number of hits currently buffered in b, unmerged.
func (b *Batch) Len() int { return len(b.hits) }

// Merge folds b's accumulated hits into s under one lock acquisition
// and clears b for reuse. It reports errs.ErrOutOfMemory (without
// merging) if doing so would exceed the sink's configured cap.
func (s *Sink) Merge(b *Batch) error {
	if len(b.hits) == 0 {
		return nil
	}
	s.mu.Lock()
	if s.maxHits > 0 && len(s.hits)+len(b.hits) > s.maxHits {
		s.mu.Unlock()
		return errs.ErrOutOfMemory
	}
	s.hits = append(s.hits, b.hits...)
	s.hitSeqs = append(s.hitSeqs, b.hitSeqs...)
	for i := range b.baseHits {
		s.seqBaseHits[i] += b.baseHits[i]
		s.seqHits[i] += b.counts[i]
	}
	s.mu.Unlock()

	b.hits = b.hits[:0]
	b.hitSeqs = b.hitSeqs[:0]
	for i := range b.baseHits {
		b.baseHits[i] = 0
		b.counts[i] = 0
	}
	return nil
}

// Len reports the total number of hits merged into the sink so far.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hits)
}

// Hits returns a copy of every hit merged into the sink so far.
func (s *Sink) Hits() []Hit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Hit, len(s.hits))
	copy(out, s.hits)
	return out
}

// HitSeqs returns the matching byte sequence for each hit, in the
// same order as Hits.
func (s *Sink) HitSeqs() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.hitSeqs))
	copy(out, s.hitSeqs)
	return out
}

// SeqHits returns, per reference index, the number of hits found.
func (s *Sink) SeqHits() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.seqHits))
	copy(out, s.seqHits)
	return out
}

// SeqBaseHits returns, per reference index, the sum of matched base
// lengths across all hits.
func (s *Sink) SeqBaseHits() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.seqBaseHits))
	copy(out, s.seqBaseHits)
	return out
}
