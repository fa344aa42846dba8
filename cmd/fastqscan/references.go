package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/sfletc/fastqscan/errs"
)

// loadReferences reads one reference-sequence file. Lines starting
// with '>' are FASTA headers and are skipped; every other non-blank
// line is treated as sequence and is uppercased and appended to the
// current entry. A file with no '>' headers at all is read as a flat
// list of one sequence per line.
func loadReferences(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, err.Error())
	}
	defer f.Close()

	var refs [][]byte
	var cur strings.Builder
	haveEntry := false

	flush := func() {
		if haveEntry && cur.Len() > 0 {
			refs = append(refs, []byte(strings.ToUpper(cur.String())))
		}
		cur.Reset()
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			haveEntry = true
			continue
		}
		if !haveEntry {
			// Flat one-sequence-per-line file: each line is its own
			// reference.
			refs = append(refs, []byte(strings.ToUpper(line)))
			continue
		}
		cur.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrIO, err.Error())
	}
	flush()

	if len(refs) == 0 {
		return nil, errs.Wrap(errs.ErrIO, "no reference sequences found in "+path)
	}
	return refs, nil
}
