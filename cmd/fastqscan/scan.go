package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/sfletc/fastqscan/scanner"
)

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "scan one or more FASTQ files for reference sequences",
		ArgsUsage: "FASTQ_FILE [FASTQ_FILE ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ref", Aliases: []string{"r"}, Required: true, Usage: "path to a FASTA or flat reference-sequence file"},
			&cli.IntFlag{Name: "max-errors", Aliases: []string{"e"}, Value: 0, Usage: "maximum Hamming mismatches tolerated per alignment"},
			&cli.IntFlag{Name: "min-overlap", Value: 20, Usage: "minimum overlap accepted at a read's edges"},
			&cli.IntFlag{Name: "min-read-length", Value: 10, Usage: "discard quality-trimmed reads shorter than this"},
			&cli.IntFlag{Name: "threads", Aliases: []string{"t"}, Value: 1, Usage: "number of worker goroutines"},
			&cli.StringFlag{Name: "amin", Value: "!", Usage: "minimum Phred+33 quality byte kept by the trim pass"},
			&cli.BoolFlag{Name: "composition", Usage: "track nucleotide composition counters"},
			&cli.BoolFlag{Name: "quality-sweep", Usage: "track the quality-threshold sweep histogram"},
			&cli.IntFlag{Name: "max-hits", Value: 0, Usage: "abort once more than this many hits have been found (0 = unbounded)"},
			&cli.IntFlag{Name: "chunk-size", Value: 4 << 20, Usage: "bytes pulled per worker read"},
			&cli.BoolFlag{Name: "progress", Usage: "print periodic progress to stderr"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Action: runScan,
	}
}

func runScan(c *cli.Context) error {
	setupLogging(c.Bool("verbose"))

	paths := c.Args().Slice()
	if len(paths) == 0 {
		return cli.Exit("at least one FASTQ file is required", 1)
	}

	refs, err := loadReferences(c.String("ref"))
	if err != nil {
		return err
	}

	amin := c.String("amin")
	if len(amin) != 1 {
		return cli.Exit("--amin must be exactly one character", 1)
	}

	cfg := scanner.DefaultConfig()
	cfg.MaxErrors = c.Int("max-errors")
	cfg.MinOverlap = c.Int("min-overlap")
	cfg.MinReadLength = c.Int("min-read-length")
	cfg.NThreads = c.Int("threads")
	cfg.AMin = amin[0]
	cfg.TrackComposition = c.Bool("composition")
	cfg.TrackQualitySweep = c.Bool("quality-sweep")
	cfg.MaxHits = c.Int("max-hits")
	cfg.ChunkSize = c.Int("chunk-size")

	engine := scanner.NewEngine(cfg)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	done := make(chan struct{})
	if c.Bool("progress") {
		go reportProgress(engine, done)
	}

	res, err := engine.FindSequences(ctx, paths, refs)
	close(done)
	if err != nil {
		return err
	}

	printSummary(res, refs)
	return nil
}

func reportProgress(engine *scanner.Engine, done <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			st := engine.Stats()
			pct := 0.0
			if st.Total > 0 {
				pct = 100 * float64(st.Parsed) / float64(st.Total)
			}
			color.New(color.FgCyan).Fprintf(os.Stderr, "progress: %s/%s bytes (%.1f%%), %s records\n",
				comma(st.Parsed), comma(st.Total), pct, comma(st.RecordsParsed))
		case <-done:
			return
		}
	}
}

func printSummary(res scanner.Result, refs [][]byte) {
	if res.Cancelled {
		color.New(color.FgYellow).Println("scan cancelled; reporting partial results")
	}

	fmt.Printf("\nRecords parsed: %s\n", comma(res.Stats.RecordsParsed))
	color.HiGreen("Total hits: %s\n", comma(int64(len(res.Hits))))

	tbl := table.New("reference", "length", "hits", "base hits")
	for i, ref := range refs {
		tbl.AddRow(i, len(ref), comma(res.Stats.SeqHits[i]), comma(res.Stats.SeqBaseHits[i]))
	}
	tbl.Print()
}
