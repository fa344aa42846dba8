package match

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

type found struct {
	spos, length int
	hitseq       string
}

func collect(read, ref []byte, maxErrors, minOverlap int) []found {
	var out []found
	Find(read, ref, maxErrors, minOverlap, func(spos, length int, hitseq []byte) {
		out = append(out, found{spos, length, string(hitseq)})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].spos < out[j].spos })
	return out
}

func TestExactMatchReadWithinSequence(t *testing.T) {
	ref := []byte("AAAACCCCGGGGTTTT")
	read := []byte("CCCCGGGG")

	got := collect(read, ref, 0, 4)
	assert.Contains(t, got, found{spos: 4, length: 8, hitseq: "CCCCGGGG"})
}

func TestExactMatchSequenceWithinRead(t *testing.T) {
	ref := []byte("CCCCGGGG")
	read := []byte("AAAACCCCGGGGTTTT")

	got := collect(read, ref, 0, 4)
	assert.Contains(t, got, found{spos: -4, length: 8, hitseq: "CCCCGGGG"})
}

func TestOneMismatchTolerance(t *testing.T) {
	ref := []byte("ACGTACGTACGT")
	read := []byte("ACGTAGGTACGT") // single mismatch at position 5 (C->G)

	got := collect(read, ref, 1, 4)
	assert.Contains(t, got, found{spos: 0, length: 12, hitseq: "ACGTAGGTACGT"})

	got = collect(read, ref, 0, 4)
	assert.NotContains(t, got, found{spos: 0, length: 12, hitseq: "ACGTAGGTACGT"})
}

func TestTailOfReadOverlapsHeadOfSequence(t *testing.T) {
	ref := []byte("GGGGTTTTAAAA")
	read := []byte("CCCCCCGGGGTT")

	got := collect(read, ref, 0, 4)
	found6 := found{spos: -6, length: 6, hitseq: "GGGGTT"}
	assert.Contains(t, got, found6)
}

func TestHeadOfReadOverlapsTailOfSequence(t *testing.T) {
	ref := []byte("AAAATTTTGGGG")
	read := []byte("TTGGGGCCCCCC")

	got := collect(read, ref, 0, 4)
	assert.Contains(t, got, found{spos: 6, length: 6, hitseq: "TTGGGG"})
}

func TestNoOverlapShorterThanMinOverlap(t *testing.T) {
	ref := []byte("GGGGTTTTAAAA")
	read := []byte("CCCCCCCCCCGG")

	got := collect(read, ref, 0, 4)
	for _, f := range got {
		assert.GreaterOrEqual(t, f.length, 4)
	}
}

func TestEqualLengthTakesCaseD(t *testing.T) {
	ref := []byte("ACGTACGT")
	read := []byte("ACGTACGT")

	got := collect(read, ref, 0, 4)
	assert.Equal(t, []found{{spos: 0, length: 8, hitseq: "ACGTACGT"}}, got)
}

func TestNoDoubleCountAtCaseBoundary(t *testing.T) {
	ref := []byte("ACGTACGTACGT")
	read := []byte("ACGTACGT")

	got := collect(read, ref, 0, 4)
	count := 0
	for _, f := range got {
		if f.spos == 0 && f.length == 8 {
			count++
		}
	}
	assert.LessOrEqual(t, count, 1)
}
