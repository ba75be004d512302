// Command lslresolve is a diagnostic CLI around the resolver package:
// it runs one oneshot or continuous resolve against the network and
// prints whatever it finds.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lslkit/lslresolve"
	"github.com/lslkit/lslresolve/config"
)

var (
	predicate   = flag.String("pred", "", "XPath predicate to resolve, e.g. \"type='EEG'\"")
	prop        = flag.String("prop", "", "shorthand for a single property=value predicate")
	value       = flag.String("value", "", "value to match prop against")
	minimum     = flag.Int("minimum", 0, "minimum number of results to wait for (oneshot mode only)")
	timeout     = flag.Duration("timeout", 5*time.Second, "overall resolve timeout; 0 means forever")
	continuous  = flag.Bool("continuous", false, "keep resolving in the background until interrupted")
	forgetAfter = flag.Duration("forget-after", 5*time.Second, "continuous mode: drop a result this long after its last reply")
	configFile  = flag.String("config", "", "path to an lsl_api.cfg to use instead of the default search path")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "lslresolve:", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *configFile != "" {
		if err := config.SetFilename(*configFile); err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	query := *predicate
	if *prop != "" {
		query = *prop
		if *value != "" {
			query = fmt.Sprintf("%s='%s'", *prop, *value)
		}
	}

	if *continuous {
		return runContinuous(ctx, query)
	}
	return runOneshot(ctx, query)
}

func runOneshot(ctx context.Context, query string) error {
	to := *timeout
	if to <= 0 {
		to = lslresolve.Forever
	}
	streams, err := lslresolve.ResolveOneshot(ctx, query, *minimum, to, 0)
	if err != nil {
		return err
	}
	return printStreams(streams)
}

func runContinuous(ctx context.Context, query string) error {
	r, err := lslresolve.NewContinuousResolver(ctx, query, *forgetAfter)
	if err != nil {
		return err
	}
	defer r.Close()

	<-ctx.Done()
	streams, err := r.Results(0)
	if err != nil {
		return err
	}
	return printStreams(streams)
}

func printStreams(streams []lslresolve.StreamInfo) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(streams)
}
