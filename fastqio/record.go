package fastqio

import "github.com/sfletc/fastqscan/errs"

// Record is one parsed FASTQ entry from a record-aligned chunk. Bases
// and Quality alias the chunk buffer passed to NewParser — callers
// that retain them past the chunk's lifetime must copy.
//
// Line endings are not normalized: a CRLF-terminated input leaves the
// trailing '\r' as the last byte of Bases/Quality, matching
// workhorse.c's raw-binary-mode read (see SPEC_FULL.md §4.3).
type Record struct {
	ID       []byte
	Bases    []byte
	Quality  []byte
	FilePos  int64 // absolute offset of the leading '@'
}

// TrimmedRead is the longest maximal run of Bases whose parallel
// Quality byte is >= the configured a_min, per spec.md §4.3.
type TrimmedRead struct {
	Bases   []byte
	Offset  int   // offset of Bases[0] within the untrimmed read
	FilePos int64 // absolute file offset of Bases[0]
}

// Parser walks one record-aligned chunk record by record.
type Parser struct {
	buf  []byte
	pos  int
	base int64
	aMin byte
}

// NewParser returns a Parser over buf, a chunk whose absolute
// decompressed offset is base (as returned by Stream.NextChunk).
// aMin is the minimum quality byte value kept by the trim pass.
func NewParser(buf []byte, base int64, aMin byte) *Parser {
	return &Parser{buf: buf, base: base, aMin: aMin}
}

// Next returns the next record in the chunk and its quality-trimmed
// read. ok is false once the chunk is exhausted. err is non-nil only
// when a record fails the structural sanity check (line 1 must start
// with '@', line 3 with '+') — the same two checks scan_filepart
// performs before trusting a record's boundaries.
func (p *Parser) Next() (rec Record, trimmed TrimmedRead, ok bool, err error) {
	buf := p.buf
	n := len(buf)
	if p.pos >= n {
		return Record{}, TrimmedRead{}, false, nil
	}

	rstart := p.pos
	var lines int
	var startID, startRead, startPlus, startScore int
	startID = rstart

	i := rstart
	for lines < 4 && i < n {
		if buf[i] == '\n' {
			lines++
			switch lines {
			case 1:
				startRead = i + 1
			case 2:
				startPlus = i + 1
			case 3:
				startScore = i + 1
			}
		}
		i++
	}

	if lines < 4 {
		// Should not happen in a chunk Stream.NextChunk aligned to a
		// record boundary; treat as exhausted rather than panic on a
		// malformed final fragment.
		p.pos = n
		return Record{}, TrimmedRead{}, false, nil
	}

	if buf[rstart] != '@' {
		return Record{}, TrimmedRead{}, false, errs.Wrapf(errs.ErrMalformedRecord,
			"record at offset %d does not start with '@'", p.base+int64(rstart))
	}
	if buf[startPlus] != '+' {
		return Record{}, TrimmedRead{}, false, errs.Wrapf(errs.ErrMalformedRecord,
			"record at offset %d has malformed separator line", p.base+int64(rstart))
	}

	rnext := i
	p.pos = rnext

	rec = Record{
		ID:      buf[startID : startRead-1],
		Bases:   buf[startRead : startPlus-1],
		Quality: buf[startScore : rnext-1],
		FilePos: p.base + int64(rstart),
	}

	bestStart, bestLen := longestRun(rec.Quality, p.aMin)
	trimmed = TrimmedRead{
		Bases:   rec.Bases[bestStart : bestStart+bestLen],
		Offset:  bestStart,
		FilePos: p.base + int64(startRead) + int64(bestStart),
	}

	return rec, trimmed, true, nil
}

// longestRun finds the longest contiguous run of quality bytes >=
// aMin, breaking ties in favor of the earliest run (spec.md §4.3).
func longestRun(quality []byte, aMin byte) (start, length int) {
	curStart, curLen := -1, 0
	bestStart, bestLen := 0, 0
	for idx, q := range quality {
		if q >= aMin {
			if curStart == -1 {
				curStart = idx
			}
			curLen++
			if curLen > bestLen {
				bestLen = curLen
				bestStart = curStart
			}
		} else {
			curStart = -1
			curLen = 0
		}
	}
	return bestStart, bestLen
}
