package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mdekstrand/redirt/internal/diff"
	"github.com/mdekstrand/redirt/internal/logging"
	"github.com/mdekstrand/redirt/internal/metrics"
	"github.com/mdekstrand/redirt/internal/walk"
)

var (
	addedStyle    = color.New(color.FgGreen)
	removedStyle  = color.New(color.FgRed)
	modifiedStyle = color.New(color.FgCyan)
	presentStyle  = color.New(color.Faint)
)

func cmdCompare(args []string) error {
	flags := pflag.NewFlagSet("compare", pflag.ExitOnError)
	follow := flags.BoolP("follow", "L", false, "follow symbolic links")
	hidden := flags.BoolP("hidden", "H", false, "include hidden files")
	checkContent := flags.BoolP("check-content", "C", false, "check file content when times and sizes are identical")
	unchanged := flags.BoolP("unchanged", "u", false, "include unchanged files in output")
	verbose := flags.CountP("verbose", "v", "increase log verbosity")
	flags.Parse(args)

	if flags.NArg() != 2 {
		return fmt.Errorf("compare: expected SRC and TGT arguments, got %d", flags.NArg())
	}
	src, tgt := flags.Arg(0), flags.Arg(1)

	cfg := setup(*verbose)
	log := logging.L()
	log.Info("comparing directories", zap.String("src", src), zap.String("tgt", tgt))

	opts := walk.Options{
		FollowSymlinks: *follow,
		IncludeHidden:  *hidden,
		QueueCapacity:  cfg.QueueCapacity,
		Logger:         log,
	}
	d := diff.New(walk.New(src, opts), walk.New(tgt, opts), diff.Options{
		CheckContent: *checkContent,
		Logger:       log,
	})
	defer d.Close()

	start := time.Now()
	count := 0
	for {
		e, err := d.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		metrics.RecordDiffEntry(e.Kind.String())
		count++

		switch e.Kind {
		case diff.Added:
			fmt.Printf("+ %s\n", addedStyle.Sprint(e.Path()))
		case diff.Removed:
			fmt.Printf("- %s\n", removedStyle.Sprint(e.Path()))
		case diff.Modified:
			fmt.Printf("x %s\n", modifiedStyle.Sprint(e.Path()))
		case diff.Present:
			if *unchanged {
				fmt.Printf("  %s\n", presentStyle.Sprint(e.Path()))
			}
		}
	}

	log.Info("compared directories",
		zap.Int("entries", count),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
