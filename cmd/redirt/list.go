package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mdekstrand/redirt/internal/logging"
	"github.com/mdekstrand/redirt/internal/metrics"
	"github.com/mdekstrand/redirt/internal/walk"
)

func cmdList(args []string) error {
	flags := pflag.NewFlagSet("list", pflag.ExitOnError)
	follow := flags.BoolP("follow", "L", false, "follow symbolic links")
	hidden := flags.BoolP("hidden", "H", false, "include hidden files")
	verbose := flags.CountP("verbose", "v", "increase log verbosity")
	flags.Parse(args)

	if flags.NArg() != 1 {
		return fmt.Errorf("list: expected 1 directory argument, got %d", flags.NArg())
	}
	dir := flags.Arg(0)

	cfg := setup(*verbose)
	log := logging.L()
	log.Info("listing directory", zap.String("dir", dir))

	w := walk.New(dir, walk.Options{
		FollowSymlinks: *follow,
		IncludeHidden:  *hidden,
		QueueCapacity:  cfg.QueueCapacity,
		Logger:         log,
	})
	defer w.Close()

	start := time.Now()
	count := 0
	for {
		e, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		metrics.RecordWalkEntry()
		count++
		if e.IsDir() {
			fmt.Printf("%s/\n", e.Path)
		} else {
			fmt.Println(e.Path)
		}
	}

	log.Info("walked directory",
		zap.String("dir", dir),
		zap.Int("entries", count),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
