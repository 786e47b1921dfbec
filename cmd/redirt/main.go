// redirt is a recursive directory tool: it lists directory trees, compares
// two trees, and copies one tree onto another.
//
// Sub-commands:
//
//	redirt list DIR [flags]         List a directory tree
//	redirt compare SRC TGT [flags]  Compare two directory trees
//	redirt copy SRC DST [flags]     Copy a tree onto a destination
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mdekstrand/redirt/internal/config"
	"github.com/mdekstrand/redirt/internal/logging"
	"github.com/mdekstrand/redirt/internal/metrics"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = cmdList(os.Args[2:])
	case "compare":
		err = cmdCompare(os.Args[2:])
	case "copy":
		err = cmdCopy(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "redirt: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		metrics.RecordError()
		logging.Error("command failed", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
	logging.Sync()
}

// setup loads process configuration and initializes logging, with the
// repeatable -v flag raising the configured level.
func setup(verbose int) *config.Config {
	cfg := config.Load()

	level := cfg.LogLevel
	switch {
	case verbose >= 2:
		level = "debug"
	case verbose == 1:
		level = "info"
	}
	if err := logging.Init(logging.Config{Level: level, Format: cfg.LogFormat}); err != nil {
		panic("logging init error: " + err.Error())
	}

	if cfg.MetricsAddr != "" {
		metrics.Serve(cfg.MetricsAddr)
	}
	return cfg
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: redirt <command> [flags] [args]

Commands:
  list DIR         list a directory tree, one relative path per line
  compare SRC TGT  compare two directory trees
  copy SRC DST     copy a source tree onto a destination tree
  help             show this help

Run "redirt <command> --help" for command flags.
`)
}
