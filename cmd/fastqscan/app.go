// Command fastqscan is the CLI front end for the scanner engine: it
// parses flags with github.com/urfave/cli/v2, reports progress and a
// colored summary the way sfletc-scramTrimmer's main.go does, and
// prints a per-reference hit table with github.com/rodaine/table.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func init() {
	// Same trick ianlewis-go-dictzip uses: park the built-in help
	// flag under a name no one would type, so "--help" on a command
	// that also takes positional file args doesn't get swallowed as
	// an unknown command.
	cli.HelpFlag = &cli.BoolFlag{
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "parallel, streaming approximate sequence scanner for FASTQ reads",
		Description: strings.Join([]string{
			"fastqscan locates reference DNA sequences in large FASTQ files",
			"(plain or gzip, single or many) with quality trimming and",
			"Hamming-bounded approximate matching.",
		}, "\n"),
		Commands: []*cli.Command{
			scanCommand(),
			versionCommand(),
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			color.New(color.FgRed).Fprintf(os.Stderr, "fastqscan: %v\n", err)
		},
	}
}

func versionBanner() {
	fig := figure.NewFigure("fastqscan", "standard", true)
	fig.Print()
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version banner",
		Action: func(c *cli.Context) error {
			versionBanner()
			fmt.Println("fastqscan - streaming FASTQ reference sequence scanner")
			return nil
		},
	}
}

func setupLogging(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func main() {
	// ExitErrHandler above already reports the error; just set the
	// process exit code here.
	if err := newApp().Run(os.Args); err != nil {
		os.Exit(1)
	}
}
