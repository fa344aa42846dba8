// Package gzreader implements GzipDecoder: a byte-oriented pull
// interface over a gzip file that tolerates the "multi-member" gzip
// variant, where several independently-terminated deflate streams are
// concatenated one after another (RFC 1952 §2.2).
//
// The inflate engine itself is github.com/klauspost/pgzip, the same
// dependency sfletc-scramTrimmer uses for its own gzip I/O. pgzip's
// Reader already walks past a finished member and reads the next
// gzip header transparently (the same behavior compress/gzip offers
// via Multistream(true)), which is exactly the resume contract this
// package needs — we configure and trust that behavior rather than
// reimplementing an inflate loop by hand.
package gzreader

import (
	"bufio"
	"io"

	"github.com/klauspost/pgzip"

	"github.com/sfletc/fastqscan/errs"
)

// gzipMagic is the two leading bytes of every gzip member (RFC 1952).
var gzipMagic = [2]byte{0x1f, 0x8b}

// Decoder wraps a raw file handle, validates the gzip header, and
// inflates, resuming transparently across concatenated members.
type Decoder struct {
	r *pgzip.Reader
}

// NewDecoder validates the gzip magic and header of r (method must be
// DEFLATE, flags must exclude CONTINUATION/ENCRYPTED/RESERVED — pgzip
// enforces this the same way compress/gzip does) and returns a Decoder
// ready to inflate. Any header or magic mismatch is reported as
// errs.ErrBadGzip.
func NewDecoder(r io.Reader) (*Decoder, error) {
	gr, err := pgzip.NewReader(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrBadGzip, err.Error())
	}
	return &Decoder{r: gr}, nil
}

// Read fills p with inflated bytes; it returns 0 and io.EOF once every
// member, plus up to 9 stray bytes after the last one (the original
// engine's 10-byte tolerance — see SPEC_FULL.md §11), has been
// consumed. Stray bytes between two members are not skipped: the next
// member's header check fails and Read reports errs.ErrBadGzip.
//
// pgzip's Reader checks for a following member by always attempting to
// read a full 10-byte header once the current member's trailer checks
// out (gunzip.go's readHeader does io.ReadFull(z.r, z.buf[0:10])). When
// 1-9 stray bytes trail the last member instead of a real header, that
// read comes back short and io.ReadFull reports io.ErrUnexpectedEOF —
// not the malformed-stream condition ErrBadGzip is for, since the
// member that just finished decoded cleanly. Treat it as the clean EOF
// spec.md §4.1's trailing-bytes tolerance calls for.
func (d *Decoder) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	switch err {
	case nil, io.EOF:
		return n, err
	case io.ErrUnexpectedEOF:
		return n, io.EOF
	default:
		return n, errs.Wrap(errs.ErrBadGzip, err.Error())
	}
}

// Close releases the underlying inflate state.
func (d *Decoder) Close() error {
	return d.r.Close()
}

// LooksLikeGzip reports whether the first two bytes available from r
// are the gzip magic, without consuming them from the caller's point
// of view — callers pass a *bufio.Reader so Peek is non-destructive.
// This backs the on-disk format detection in spec.md §6 ("inspection
// of magic bytes may also be used") as an alternative to the ".gz"
// suffix check.
func LooksLikeGzip(br *bufio.Reader) (bool, error) {
	head, err := br.Peek(2)
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, errs.Wrap(errs.ErrIO, err.Error())
	}
	return head[0] == gzipMagic[0] && head[1] == gzipMagic[1], nil
}
