// Command intercept redirects a device's input events to stdout
// (component B, capture agent), the Go rendering of original_source's
// intercept.c.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/interception-tools/core/internal/capture"
)

func usage() {
	fmt.Fprintf(os.Stderr,
		"intercept - redirect device input events to stdout\n\n"+
			"usage: %s [-h] [-g] devnode\n\n"+
			"options:\n"+
			"    -h        show this message and exit\n"+
			"    -g        grab device\n"+
			"    devnode   path of device to capture events from\n",
		os.Args[0])
}

func main() {
	grab := flag.Bool("g", false, "grab device")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	log := zerolog.New(os.Stderr).With().Str("subsystem", "intercept").Logger()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	agent := capture.New(&log)
	if err := agent.Capture(ctx, flag.Arg(0), *grab, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
