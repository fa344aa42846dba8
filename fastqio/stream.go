// Package fastqio turns one or more FASTQ files — plain or gzip,
// freely mixed — into a sequence of byte chunks that always end on a
// record boundary, and parses each chunk into individual records with
// their quality-trimmed reads.
//
// The chunked, record-aligned read is the one piece of this pipeline
// with no direct analogue in the example pack: every retrieved FASTQ
// reader assumes bufio.Scanner over an already-whole, already-aligned
// stream. The tail-trim rule below is grounded directly in kvarq's
// workhorse.c (fastq_read / fastq_rewind), the C engine this package's
// behavior is distilled from.
package fastqio

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sfletc/fastqscan/errs"
	"github.com/sfletc/fastqscan/gzreader"
)

// countingReader counts bytes read from the underlying file handle so
// a Stream can track how many on-disk (compressed) bytes a gzip
// member has consumed so far, the same value workhorse.c reads back
// via ftell(fd).
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Stream pulls bytes from a list of input files — in order, opening
// the next file only once the current one is exhausted — and hands
// back chunks that always end at a record boundary. Stream is safe
// for concurrent use: NextChunk is the single entry point and is
// guarded by an internal mutex, mirroring the "single shared byte
// stream, N pulling workers" shape of spec.md §5.
type Stream struct {
	mu sync.Mutex

	paths []string
	idx   int

	file       *os.File
	reader     io.Reader
	counter    *countingReader
	curIsGzip  bool
	curOnDisk  int64
	carry      []byte
	fposTotal  int64
	priorBytes int64
	done       bool

	totalOnDisk  int64
	totalEstimate atomic.Int64
	parsedBytes   atomic.Int64

	openErr error
}

// NewStream stats every path up front (to seed the size estimate) and
// leaves the first file unopened until the first NextChunk call.
func NewStream(paths []string) (*Stream, error) {
	if len(paths) == 0 {
		return nil, errs.Wrap(errs.ErrIO, "no input paths given")
	}
	s := &Stream{paths: append([]string(nil), paths...)}

	var total int64
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, errs.Wrap(errs.ErrIO, err.Error())
		}
		total += fi.Size()
	}
	s.totalOnDisk = total
	s.totalEstimate.Store(total)
	return s, nil
}

// isGzipPath mirrors the ".gz" suffix detection convention of
// spec.md §6; callers that need magic-byte sniffing instead can use
// gzreader.LooksLikeGzip directly before constructing the Stream.
func isGzipPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// openNext opens the next path in the list, returning false once the
// list is exhausted. It must only be called while s.mu is held.
func (s *Stream) openNext() bool {
	if s.idx >= len(s.paths) {
		return false
	}
	path := s.paths[s.idx]
	s.idx++

	f, err := os.Open(path)
	if err != nil {
		s.openErr = errs.Wrap(errs.ErrIO, err.Error())
		s.file = nil
		s.reader = nil
		return false
	}
	fi, statErr := f.Stat()
	onDisk := int64(0)
	if statErr == nil {
		onDisk = fi.Size()
	}

	s.file = f
	s.curOnDisk = onDisk
	if isGzipPath(path) {
		s.curIsGzip = true
		s.counter = &countingReader{r: f}
		dec, err := gzreader.NewDecoder(s.counter)
		if err != nil {
			f.Close()
			s.openErr = err
			s.file = nil
			s.reader = nil
			return false
		}
		s.reader = dec
		// Quirk preserved from workhorse.c's fastq_open_next: every
		// time a gzip file is opened the running size estimate is
		// multiplied by 3 (a rough compression-ratio guess), and then
		// corrected by the ratio-based refinement below as real bytes
		// flow through. With several gzip inputs this can compound,
		// but the refinement converges within the first few reads.
		s.totalEstimate.Store(s.totalEstimate.Load() * 3)
	} else {
		s.curIsGzip = false
		s.counter = nil
		s.reader = f
	}
	return true
}

// closeCurrent closes the current file handle and folds its on-disk
// size into the cumulative "prior files" total used by the
// ratio-based size estimate.
func (s *Stream) closeCurrent() {
	if s.file != nil {
		s.file.Close()
	}
	s.priorBytes += s.curOnDisk
	s.file = nil
	s.reader = nil
	s.counter = nil
}

func (s *Stream) refineEstimate(fposBefore, newBytesSoFar int64) {
	if !s.curIsGzip || s.counter == nil {
		return
	}
	denom := s.priorBytes + s.counter.n
	if denom <= 0 {
		return
	}
	est := int64(float64(s.totalOnDisk) * float64(fposBefore+newBytesSoFar) / float64(denom))
	s.totalEstimate.Store(est)
}

// NextChunk fills buf with the next run of record-aligned bytes and
// reports the absolute decompressed offset of buf[0] within this
// input's logical byte stream. It returns io.EOF once every file is
// exhausted. Safe for concurrent callers; each call returns
// non-overlapping, independently owned data.
func (s *Stream) NextChunk(buf []byte) (n int, basePos int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return 0, 0, io.EOF
	}

	carryLen := len(s.carry)
	l := copy(buf, s.carry)
	s.carry = nil
	basePos = s.fposTotal - int64(carryLen)

	if s.reader == nil {
		if !s.openNext() {
			if s.openErr != nil {
				err := s.openErr
				s.openErr = nil
				s.done = true
				return 0, 0, err
			}
			if l == 0 {
				s.done = true
				return 0, 0, io.EOF
			}
			s.done = true
			s.parsedBytes.Add(int64(l))
			return l, basePos, nil
		}
	}

	fposBefore := s.fposTotal
	var newBytes int64
	exhausted := false

	for l < len(buf) {
		m, rerr := s.reader.Read(buf[l:])
		if m > 0 {
			l += m
			newBytes += int64(m)
			s.refineEstimate(fposBefore, newBytes)
		}
		if rerr == io.EOF {
			s.closeCurrent()
			exhausted = true
			break
		} else if rerr != nil {
			// gzreader.Decoder already reports inflate failures under
			// errs.ErrBadGzip; preserve that identity instead of
			// re-rooting it under errs.ErrIO, so errors.Is still tells
			// callers which layer actually failed.
			if errors.Is(rerr, errs.ErrBadGzip) {
				return 0, 0, rerr
			}
			return 0, 0, errs.Wrap(errs.ErrIO, rerr.Error())
		}
		if m == 0 {
			break
		}
	}

	s.fposTotal += newBytes

	if l == 0 {
		s.done = true
		return 0, 0, io.EOF
	}

	if !exhausted {
		recStart, ok := tailTrim(buf[:l])
		if !ok {
			return 0, 0, errs.ErrShortBuffer
		}
		s.carry = append([]byte(nil), buf[recStart:l]...)
		l = recStart
	}

	s.parsedBytes.Add(int64(l))
	return l, basePos, nil
}

// Parsed returns the number of decompressed bytes handed out in
// aligned chunks so far (lock-free; safe to poll from any goroutine).
func (s *Stream) Parsed() int64 { return s.parsedBytes.Load() }

// Total returns the current best estimate of the stream's total
// decompressed size. For plain files this is exact; for gzip inputs
// it is refined on every read from the observed compression ratio and
// is only guaranteed to converge, not to be exact, the same caveat
// workhorse.c's fastq_size_estimated carries.
func (s *Stream) Total() int64 { return s.totalEstimate.Load() }

// tailTrim scans buf backward for the last complete record boundary,
// following the exact rule kvarq's fastq_rewind uses: find a line
// starting with '+' (the quality separator — note '+' is itself a
// legal Phred+33 quality character, so this alone is not enough),
// then, continuing backward, accept the next line starting with '@'
// as the true start of the last complete record. It returns the index
// in buf where that record begins, or ok=false if no such boundary
// exists. The scan never examines buf[0] or buf[1], so a record that
// starts at buf[0] is never reported: ok is true only when buf also
// holds the '@' and '+' lines of a later record.
func tailTrim(buf []byte) (int, bool) {
	n := len(buf)
	sawPlus := false
	for i := 1; i+1 < n; i++ {
		c := buf[n-i]
		prev := buf[n-i-1]
		switch {
		case c == '+' && (prev == '\n' || prev == '\r'):
			sawPlus = true
		case sawPlus && c == '@' && (prev == '\n' || prev == '\r'):
			return n - i, true
		}
	}
	return 0, false
}
