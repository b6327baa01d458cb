// Command mux manages named persistent event queues: create, single-
// queue input, fan-out output, and activity-switched output (component
// C). create/input/output mirror original_source/mux.cpp's -c/-i/-o
// roles; switch is a supplemented role.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/interception-tools/core/internal/metrics"
	"github.com/interception-tools/core/internal/mux"
)

func usage() {
	fmt.Fprintf(os.Stderr,
		"mux - mux streams of input events\n\n"+
			"usage: %s [-h] [-dir path] [-c name]... | [-i name] | [-o name]... | [-sdefault a,b,... -s sel:a,b,...]...\n\n"+
			"options:\n"+
			"    -h              show this message and exit\n"+
			"    -dir path       directory backing the named queues (default .)\n"+
			"    -c name         name of queue to create (repeatable)\n"+
			"    -i name         name of queue to read input from\n"+
			"    -o name         name of queue to write output to (repeatable)\n"+
			"    -sdefault list  comma-separated default switch group members\n"+
			"    -s sel:list     comma-separated switch group members, keyed by a selector queue name\n"+
			"    -http addr      serve /healthz, /metrics on addr (output/switch roles only, default disabled)\n",
		os.Args[0])
}

type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

func main() {
	var creates, outputs, groups stringList
	dir := flag.String("dir", ".", "directory backing the named queues")
	input := flag.String("i", "", "name of queue to read input from")
	defaultGroup := flag.String("sdefault", "", "comma-separated default switch group members")
	httpAddr := flag.String("http", "", "serve /healthz, /metrics on addr (output/switch roles only)")
	flag.Var(&creates, "c", "name of queue to create (repeatable)")
	flag.Var(&outputs, "o", "name of queue to write output to (repeatable)")
	flag.Var(&groups, "s", "selector:member1,member2 (repeatable)")
	flag.Usage = usage
	flag.Parse()

	var err error
	switch {
	case len(creates) > 0:
		specs := make([]mux.QueueSpec, len(creates))
		for i, name := range creates {
			specs[i] = mux.QueueSpec{Name: name}
		}
		err = mux.RunCreate(*dir, specs)

	case *input != "":
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		err = mux.RunInput(ctx, *dir, *input, os.Stdout)

	case len(outputs) > 0:
		if *httpAddr != "" {
			collectors := metrics.New()
			stopStatusServer := serveStatus(*httpAddr)
			defer stopStatusServer()
			err = mux.RunOutputMetered(*dir, outputs, os.Stdin, recorderAdapter{collectors})
		} else {
			err = mux.RunOutput(*dir, outputs, os.Stdin)
		}

	case *defaultGroup != "" || len(groups) > 0:
		spec := mux.SwitchSpec{DefaultGroup: splitList(*defaultGroup)}
		for _, g := range groups {
			sel, members, ok := strings.Cut(g, ":")
			if !ok {
				fmt.Fprintf(os.Stderr, "invalid -s value %q, want selector:member1,member2\n", g)
				os.Exit(1)
			}
			spec.Groups = append(spec.Groups, mux.SwitchGroup{Selector: sel, Members: splitList(members)})
		}
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		if *httpAddr != "" {
			collectors := metrics.New()
			stopStatusServer := serveStatus(*httpAddr)
			defer stopStatusServer()
			err = mux.RunSwitchMetered(ctx, *dir, spec, os.Stdin, recorderAdapter{collectors})
		} else {
			err = mux.RunSwitch(ctx, *dir, spec, os.Stdin)
		}

	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// noopJobLister satisfies metrics.JobLister for processes (create/input/
// output/switch) that track no child jobs of their own.
type noopJobLister struct{}

func (noopJobLister) Jobs() []metrics.JobSummary { return nil }

// serveStatus starts the shared status server in the background and
// returns a func to request its shutdown.
func serveStatus(addr string) func() {
	log := zerolog.New(os.Stderr).With().Str("subsystem", "mux").Logger()
	srv := metrics.NewServer(addr, &log, noopJobLister{})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := srv.Run(ctx); err != nil {
			log.Error().Err(err).Msg("status server exited")
		}
	}()
	return cancel
}

// recorderAdapter bridges a *metrics.Collectors to mux.Recorder.
type recorderAdapter struct{ c *metrics.Collectors }

func (r recorderAdapter) Forwarded(queue string) { r.c.EventsForwarded.WithLabelValues(queue).Inc() }
func (r recorderAdapter) Dropped(queue string)   { r.c.BackpressureDrop.WithLabelValues(queue).Inc() }
func (r recorderAdapter) QueueDepth(queue string, depth int) {
	r.c.QueueDepth.WithLabelValues(queue).Set(float64(depth))
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
