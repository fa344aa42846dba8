// Package match implements the approximate substring matcher: given a
// quality-trimmed read and one reference sequence, it enumerates the
// four possible geometric overlaps and reports every alignment within
// a Hamming-mismatch bound. It deliberately knows nothing about
// references indices, file positions, or hit storage — those belong
// to the caller (package scanner) — so it stays a pure, allocation-
// free kernel that is trivial to fuzz and benchmark in isolation.
package match

// Emit receives one alignment: spos is the signed seq_pos of
// spec.md §4.4, length is the number of overlapping bases matched,
// and hitseq is the exact matching substring of the read (a sub-slice
// of the read passed to Find — callers that retain it across calls
// must copy it, the same contract kvarq's add_hit places on its
// caller before handing the bytes to Python).
type Emit func(spos, length int, hitseq []byte)

// Find enumerates the four geometric overlap cases between read and
// ref, calling emit for every alignment with at most maxErrors
// mismatches. Emission order is deterministic: case A (tail of read
// over head of ref), then case B (head of read over tail of ref),
// then whichever of case C (ref within read) or case D (read within
// ref) applies — descending offset within A/B, ascending within C/D,
// matching kvarq's workhorse.c scan_filepart loop order exactly.
//
// Cases A and B only fire when both rl and sl exceed minOverlap.
// Exactly one of C or D fires per call: C when rl > sl, D otherwise
// (so rl == sl always takes case D, matching the original's
// "rl>seql ... else ..." branch).
func Find(read, ref []byte, maxErrors, minOverlap int, emit Emit) {
	rl := len(read)
	sl := len(ref)

	if rl > minOverlap && sl > minOverlap {
		// Case A: tail of read overlaps head of reference.
		//
		// The "rl-i<=sl-1" bound (not "rl-i<=sl") is preserved from
		// the original verbatim: without it, the shortest possible
		// case-A overlap would have the same length as the case-C/D
		// alignment at the same offset, double-counting one hit. See
		// SPEC_FULL.md §11.
		for i := rl - minOverlap; i > 0 && rl-i <= sl-1; i-- {
			if hamming(read[i:rl], ref[:rl-i], maxErrors) {
				emit(-i, rl-i, read[i:rl])
			}
		}

		// Case B: head of read overlaps tail of reference.
		for i := sl - minOverlap; i > 0 && sl-i <= rl; i-- {
			if hamming(ref[i:sl], read[:sl-i], maxErrors) {
				emit(i, sl-i, read[:sl-i])
			}
		}
	}

	if rl > sl {
		// Case C: reference strictly within read.
		for i := 0; i <= rl-sl; i++ {
			if hamming(read[i:i+sl], ref, maxErrors) {
				emit(-i, sl, read[i:i+sl])
			}
		}
		return
	}

	// Case D: read entirely within reference.
	for i := 0; i <= sl-rl; i++ {
		if hamming(ref[i:i+rl], read, maxErrors) {
			emit(i, rl, read[:rl])
		}
	}
}

// hamming compares a and b (already sliced to equal length by the
// caller) and reports whether their mismatch count is within
// maxErrors, terminating the scan as soon as it cannot be.
func hamming(a, b []byte, maxErrors int) bool {
	e := 0
	for i := range a {
		if a[i] != b[i] {
			e++
			if e > maxErrors {
				return false
			}
		}
	}
	return true
}
