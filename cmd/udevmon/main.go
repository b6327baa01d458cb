// Command udevmon runs the device supervisor (component E): watches for
// input device add/remove and spawns/terminates job pipelines per the
// configured match rules. Go rendering of original_source/udevmon.cpp's
// single-configuration-file CLI, with an added optional status endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/interception-tools/core/internal/metrics"
	"github.com/interception-tools/core/internal/supervisor"
)

func usage() {
	fmt.Fprintf(os.Stderr,
		"udevmon - monitor device input and dispatch configured job pipelines\n\n"+
			"usage: %s [-h] -c configuration.yaml [-http addr]\n\n"+
			"options:\n"+
			"    -h               show this message and exit\n"+
			"    -c configuration.yaml  rule file (repeatable)\n"+
			"    -http addr       serve /healthz, /metrics, /jobs on addr (default disabled)\n",
		os.Args[0])
}

type stringList []string

func (s *stringList) String() string     { return "" }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

func main() {
	var configs stringList
	httpAddr := flag.String("http", "", "serve /healthz, /metrics, /jobs on addr")
	flag.Var(&configs, "c", "rule file (repeatable)")
	flag.Usage = usage
	flag.Parse()

	if len(configs) == 0 {
		usage()
		os.Exit(1)
	}

	var rules []supervisor.Rule
	for _, path := range configs {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		parsed, err := loadRules(data)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		rules = append(rules, parsed...)
	}

	log := zerolog.New(os.Stderr).With().Str("subsystem", "udevmon").Logger()

	monitor, err := supervisor.NewUdevMonitor()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer monitor.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var sv *supervisor.Supervisor
	if *httpAddr != "" {
		collectors := metrics.New()
		sv = supervisor.NewWithRecorder(rules, monitor, &log, recorderAdapter{collectors})
		statusSrv := metrics.NewServer(*httpAddr, &log, jobAdapter{sv})
		go func() {
			if err := statusSrv.Run(ctx); err != nil {
				log.Error().Err(err).Msg("status server exited")
			}
		}()
	} else {
		sv = supervisor.New(rules, monitor, &log)
	}

	if err := sv.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// jobAdapter bridges supervisor.Supervisor to metrics.JobLister without
// metrics importing supervisor.
type jobAdapter struct{ sv *supervisor.Supervisor }

func (j jobAdapter) Jobs() []metrics.JobSummary {
	jobs := j.sv.Jobs()
	out := make([]metrics.JobSummary, len(jobs))
	for i, jb := range jobs {
		out[i] = metrics.JobSummary{Key: jb.Key, ID: jb.ID.String(), Pid: jb.Pid}
	}
	return out
}

// recorderAdapter bridges a *metrics.Collectors to supervisor.Recorder.
type recorderAdapter struct{ c *metrics.Collectors }

func (r recorderAdapter) JobSpawned()    { r.c.JobsSpawned.Inc() }
func (r recorderAdapter) JobReaped()     { r.c.JobsReaped.Inc() }
func (r recorderAdapter) DeviceMatched() { r.c.DevicesMatched.Inc() }
