package fastqio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserBasicRecords(t *testing.T) {
	buf := []byte("@r1 desc\nACGTACGT\n+\nIIIIIIII\n@r2\nTTTTGGGG\n+r2\nJJJJJJJJ\n")
	p := NewParser(buf, 1000, 'I')

	rec1, trimmed1, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "@r1 desc", string(rec1.ID))
	assert.Equal(t, "ACGTACGT", string(rec1.Bases))
	assert.Equal(t, "IIIIIIII", string(rec1.Quality))
	assert.Equal(t, int64(1000), rec1.FilePos)
	assert.Equal(t, "ACGTACGT", string(trimmed1.Bases))

	rec2, _, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "@r2", string(rec2.ID))
	assert.Equal(t, "TTTTGGGG", string(rec2.Bases))

	_, _, ok, err = p.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParserQualityTrimLongestRun(t *testing.T) {
	// quality: "!!!!IIII!!" -> aMin 'I' keeps only positions 4-7.
	buf := []byte("@r\nAACCGGTTAA\n+\n!!!!IIII!!\n")
	p := NewParser(buf, 0, 'I')

	_, trimmed, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "GGTT", string(trimmed.Bases))
	assert.Equal(t, 4, trimmed.Offset)
	assert.Equal(t, int64(3+4), trimmed.FilePos) // startread=3, offset=4
}

func TestParserQualityTrimTieBreaksEarliest(t *testing.T) {
	// two runs of length 3 at offsets 0-2 and 6-8; earliest wins.
	buf := []byte("@r\nAAACCCGGG\n+\nJJJ!!!JJJ\n")
	p := NewParser(buf, 0, 'J')

	_, trimmed, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, trimmed.Offset)
}

func TestParserMalformedRecordMissingAt(t *testing.T) {
	buf := []byte("Xr\nACGT\n+\nIIII\n")
	p := NewParser(buf, 0, 'I')

	_, _, ok, err := p.Next()
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestParserMalformedRecordMissingPlus(t *testing.T) {
	buf := []byte("@r\nACGT\nXXXXX\nIIII\n")
	p := NewParser(buf, 0, 'I')

	_, _, ok, err := p.Next()
	assert.False(t, ok)
	assert.Error(t, err)
}
