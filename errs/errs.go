// Package errs defines the sentinel error kinds shared across the
// fastqscan engine, so that every package that can fail — gzreader,
// fastqio, hitsink, scanner — reports failures the caller can distinguish with
// errors.Is regardless of which layer raised them.
package errs

import "github.com/pkg/errors"

var (
	// ErrIO covers any failure to open or read an input file.
	ErrIO = errors.New("fastqscan: io error")

	// ErrBadGzip covers a malformed gzip header or an inflate failure.
	ErrBadGzip = errors.New("fastqscan: bad gzip stream")

	// ErrMalformedRecord covers a FASTQ record that does not start
	// with '@' or whose third line does not start with '+'.
	ErrMalformedRecord = errors.New("fastqscan: malformed fastq record")

	// ErrShortBuffer covers a chunk buffer too small to contain one
	// complete record — an implementer's contract violation, not a
	// malformed-input error.
	ErrShortBuffer = errors.New("fastqscan: chunk buffer too small for one record")

	// ErrOutOfMemory is reported when merging hits would exceed a hit
	// sink's configured hit cap.
	ErrOutOfMemory = errors.New("fastqscan: out of memory")

	// ErrBusy is returned immediately when FindSequences is called
	// while a scan is already running on the same Engine.
	ErrBusy = errors.New("fastqscan: scan already in progress")
)

// Wrap annotates err with msg while preserving errors.Is matching
// against the sentinel kinds above, the way dselans-mmmbop wraps
// driver errors with github.com/pkg/errors before logging them.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, format, args...)
}
