package scanner

// Config holds every tunable of one scan, per spec.md §4 / §6.
type Config struct {
	// MaxErrors is the maximum Hamming distance (mismatched bases)
	// tolerated in an alignment.
	MaxErrors int

	// MinOverlap is the shortest overlap accepted for the partial
	// (case A/B) alignments at a read's edges.
	MinOverlap int

	// MinReadLength discards a quality-trimmed read from matching
	// entirely once it falls below this length; it is still counted
	// in RecordsParsed and the read-length histogram.
	MinReadLength int

	// NThreads is the number of worker goroutines pulling from the
	// shared FastqStream. Values below 1 are treated as 1.
	NThreads int

	// AMin is the minimum Phred+33 quality byte kept by the
	// longest-run trim pass.
	AMin byte

	// AZero is the quality byte value treated as "absent/zero" for
	// reporting purposes (kept for parity with workhorse.c's
	// a_zero; unused by the trim pass itself, which only compares
	// against AMin).
	AZero byte

	// TrackComposition enables the supplemented nucleotide
	// composition counters (spec.md's distillation dropped this;
	// workhorse.c's analyse_record always computed it).
	TrackComposition bool

	// TrackQualitySweep enables the supplemented quality-threshold
	// sweep histogram (workhorse.c's all_rls_buf).
	TrackQualitySweep bool

	// MaxHits caps the total number of hits retained before a scan
	// aborts with an out-of-memory error; 0 means unbounded.
	MaxHits int

	// ChunkSize is the size in bytes of each buffer workers pull from
	// the shared stream. It must comfortably exceed twice the longest
	// expected record, or fastqio.Stream.NextChunk will report
	// errs.ErrShortBuffer.
	ChunkSize int
}

// DefaultConfig returns reasonable defaults for short-read Illumina-
// style FASTQ data.
func DefaultConfig() Config {
	return Config{
		MaxErrors:     0,
		MinOverlap:    20,
		MinReadLength: 10,
		NThreads:      1,
		AMin:          '!',
		AZero:         '!',
		ChunkSize:     4 << 20,
	}
}
