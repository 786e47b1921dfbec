package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mdekstrand/redirt/internal/diff"
	"github.com/mdekstrand/redirt/internal/logging"
	"github.com/mdekstrand/redirt/internal/metrics"
	"github.com/mdekstrand/redirt/internal/mirror"
	"github.com/mdekstrand/redirt/internal/walk"
)

func cmdCopy(args []string) error {
	flags := pflag.NewFlagSet("copy", pflag.ExitOnError)
	follow := flags.BoolP("follow", "L", false, "follow symbolic links")
	hidden := flags.BoolP("hidden", "H", false, "include hidden files")
	noIgnore := flags.BoolP("no-ignore", "I", false, "do not respect ignore files")
	prune := flags.Bool("prune", false, "remove destination entries missing from the source")
	verbose := flags.CountP("verbose", "v", "increase log verbosity")
	flags.Parse(args)

	if flags.NArg() != 2 {
		return fmt.Errorf("copy: expected SRC and DST arguments, got %d", flags.NArg())
	}
	src, dst := flags.Arg(0), flags.Arg(1)

	cfg := setup(*verbose)
	log := logging.L()
	log.Info("copying directory", zap.String("src", src), zap.String("dst", dst))

	opts := walk.Options{
		FollowSymlinks: *follow,
		IncludeHidden:  *hidden,
		NoIgnore:       *noIgnore,
		QueueCapacity:  cfg.QueueCapacity,
		Logger:         log,
	}
	// The synchronizer ensures the destination root exists; it has to be
	// created before the destination walker starts.
	syncer, err := mirror.New(src, dst, mirror.Options{Prune: *prune, Logger: log})
	if err != nil {
		return err
	}

	// Each side honors its own root's ignore rules; destination entries
	// that are ignored stay invisible to the diff, so prune never touches
	// them.
	d := diff.New(walk.NewIgnoreWalker(src, opts), walk.NewIgnoreWalker(dst, opts), diff.Options{Logger: log})
	defer d.Close()

	start := time.Now()
	stats, err := syncer.Run(d)
	if stats != nil {
		metrics.RecordCopied(stats.FilesCopied, stats.BytesCopied)
		metrics.RecordDirsCreated(stats.DirsCreated)
		metrics.RecordPruned(stats.Pruned)
	}
	if err != nil {
		return err
	}

	fmt.Printf("copied %d files and %d directories\n", stats.FilesCopied, stats.DirsCreated)
	if stats.Pruned > 0 {
		fmt.Printf("pruned %d destination entries\n", stats.Pruned)
	}
	log.Info("copied directory",
		zap.Int("files", stats.FilesCopied),
		zap.Int("dirs", stats.DirsCreated),
		zap.Int("up_to_date", stats.UpToDate),
		zap.Int("pruned", stats.Pruned),
		zap.Int64("bytes", stats.BytesCopied),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
