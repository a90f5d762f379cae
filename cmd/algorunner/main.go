// Command algorunner hosts an algorithm entry point over the line-oriented
// request/response protocol: JSON request envelopes in, one JSON response
// line per request out.
//
// The compiled-in entry point below is a placeholder echo algorithm;
// algorithm authors replace it with their own EntryPoint and rebuild.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/algoport/algo"
	"github.com/algoport/algo/runner"
)

func main() {
	cfgPath := flag.String("config", "", "optional config file (viper-readable)")
	flag.Parse()

	cfg, err := runner.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := runner.NewLogger(cfg)
	defer func() { _ = log.Sync() }()

	disp := algo.NewDispatcher(entryPoint(),
		algo.WithOnFailure(func(ctx context.Context, kind algo.Kind, err error, d time.Duration) {
			log.Warn("dispatch failed",
				zap.String("error_type", string(kind)),
				zap.Duration("elapsed", d),
				zap.Error(err),
			)
		}),
	)

	in, err := openInput(cfg.Input)
	if err != nil {
		log.Fatal("open input", zap.Error(err))
	}
	out, err := openOutput(cfg.Output)
	if err != nil {
		log.Fatal("open output", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(disp, log)
	if err := r.Serve(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("serve failed", zap.Error(err))
		os.Exit(1)
	}
}

// entryPoint is the hosted algorithm. The default echoes input back in its
// own content type.
func entryPoint() algo.EntryPoint {
	return algo.EntryFunc(func(ctx context.Context, in algo.Value, opts algo.Options) (any, error) {
		return in, nil
	})
}

func openInput(path string) (io.Reader, error) {
	if path == "" || path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.Writer, error) {
	if path == "" || path == "-" {
		return os.Stdout, nil
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
}
