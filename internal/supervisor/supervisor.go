//go:build linux

package supervisor

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"github.com/interception-tools/core/internal/evdev"
	"github.com/interception-tools/core/internal/uinput"
	"github.com/interception-tools/core/internal/utils"
)

var defaultLogger = zerolog.New(os.Stderr).With().Str("subsystem", "supervisor").Logger()

// virtualInputDir is where uinput-created devices show up; the
// supervisor never matches its own replayer output against rules.
const virtualInputDir = "/sys/devices/virtual/input"

// reconcileInterval is the period of the safety-net re-scan that runs
// alongside the netlink monitor (supplemented feature: a robustness gap
// the original single-loop udevmon.cpp does not cover).
const reconcileInterval = 10 * time.Second

// Recorder receives the supervisor's job/match accounting. A small local
// interface, matching mux.Recorder's shape, so supervisor stays free of
// a dependency on the metrics package; cmd/udevmon adapts a
// *metrics.Collectors to it.
type Recorder interface {
	JobSpawned()
	JobReaped()
	DeviceMatched()
}

type noopRecorder struct{}

func (noopRecorder) JobSpawned()    {}
func (noopRecorder) JobReaped()     {}
func (noopRecorder) DeviceMatched() {}

// Supervisor runs the device match/spawn/reap state machine: launch
// bare jobs, enumerate present devices, then watch a hotplug Monitor
// for add/remove, spawning or tearing down job pipelines on (rule,
// device) matches.
type Supervisor struct {
	log     *zerolog.Logger
	rules   []Rule
	jobs    *jobs
	monitor Monitor
	rec     Recorder
}

// New builds a Supervisor. log may be nil to use the package default.
func New(rules []Rule, monitor Monitor, log *zerolog.Logger) *Supervisor {
	return NewWithRecorder(rules, monitor, log, noopRecorder{})
}

// NewWithRecorder is New plus a Recorder for job/match accounting.
func NewWithRecorder(rules []Rule, monitor Monitor, log *zerolog.Logger, rec Recorder) *Supervisor {
	if log == nil {
		log = &defaultLogger
	}
	if rec == nil {
		rec = noopRecorder{}
	}
	return &Supervisor{
		log:     log,
		rules:   rules,
		jobs:    newJobs(),
		monitor: monitor,
		rec:     rec,
	}
}

// Run launches bare jobs, performs the initial enumeration scan, then
// blocks servicing the hotplug monitor, a periodic reconciliation scan,
// and SIGINT/SIGTERM/SIGCHLD until ctx is cancelled or a signal arrives
//.
func (s *Supervisor) Run(ctx context.Context) error {
	s.launchBareJobs()

	for _, devnode := range s.enumerate() {
		s.handleAdd(devnode)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	chldCh := make(chan os.Signal, 1)
	signal.Notify(chldCh, syscall.SIGCHLD)
	defer signal.Stop(chldCh)

	reconcileCh := make(chan struct{}, 1)
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	defer func() { _ = scheduler.Shutdown() }()
	if _, err := scheduler.NewJob(
		gocron.DurationJob(reconcileInterval),
		gocron.NewTask(func() {
			select {
			case reconcileCh <- struct{}{}:
			default:
			}
		}),
	); err != nil {
		return err
	}
	scheduler.Start()

	for {
		select {
		case <-ctx.Done():
			s.jobs.terminateAll()
			return nil

		case <-sigCh:
			s.log.Info().Msg("received shutdown signal, terminating tracked jobs")
			s.jobs.terminateAll()
			return nil

		case <-chldCh:
			for reapOne() {
				s.rec.JobReaped()
			}

		case ev, ok := <-s.monitor.Events():
			if !ok {
				return nil
			}
			s.handleHotplug(ev)

		case err, ok := <-s.monitor.Errors():
			if !ok {
				continue
			}
			s.log.Error().Err(err).Msg("hotplug monitor error")

		case <-reconcileCh:
			s.reconcile()
		}
	}
}

func (s *Supervisor) launchBareJobs() {
	for _, rule := range s.rules {
		if !rule.Bare {
			continue
		}
		key := "bare:" + strings.Join(rule.Jobs, "|")
		if err := s.jobs.spawnAll(key, rule, ""); err != nil {
			s.log.Error().Err(err).Str("job", key).Msg("bare job failed to spawn")
		}
	}
}

// enumerate lists /dev/input/event* nodes present at startup.
func (s *Supervisor) enumerate() []string {
	entries, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		s.log.Error().Err(err).Msg("enumerate input devices")
		return nil
	}
	return entries
}

func (s *Supervisor) handleHotplug(ev HotplugEvent) {
	if isVirtual(ev.SysPath) {
		return
	}
	if ev.Devnode == "" || !strings.HasPrefix(ev.Devnode, "/dev/input/event") {
		return
	}
	switch ev.Action {
	case "add":
		s.handleAdd(ev.Devnode)
	case "remove":
		s.handleRemove(ev.Devnode)
	}
}

func isVirtual(sysPath string) bool {
	return strings.Contains(sysPath, virtualInputDir) || strings.Contains(sysPath, "/virtual/input")
}

// handleAdd opens and describes devnode, finds the first matching rule,
// and spawns its job pipeline. Errors are logged
// and the device is left un-intercepted.
func (s *Supervisor) handleAdd(devnode string) {
	if s.jobs.has(devnode) {
		return
	}

	dev, err := evdev.Open(devnode)
	if err != nil {
		s.log.Warn().Err(err).Str("devnode", devnode).Msg("open device failed")
		return
	}
	defer dev.Close()

	info := DeviceInfo{
		Devnode: devnode,
		Links:   udevLinks(devnode),
		Desc:    uinput.Describe(dev),
	}

	rule, ok := FirstMatch(s.rules, info)
	if !ok {
		return
	}
	s.rec.DeviceMatched()

	if err := s.jobs.spawnAll(devnode, rule, devnode); err != nil {
		s.log.Error().Err(err).Str("devnode", devnode).Msg("spawn job failed")
		return
	}
	for range rule.Jobs {
		s.rec.JobSpawned()
	}
	s.log.Info().Str("devnode", devnode).Str("name", info.Desc.Name).Msg("matched device, job spawned")
}

// handleRemove tears down any job tracked against devnode.
func (s *Supervisor) handleRemove(devnode string) {
	if !s.jobs.has(devnode) {
		return
	}
	s.jobs.terminate(devnode)
	s.log.Info().Str("devnode", devnode).Msg("device removed, job terminated")
}

// reconcile re-derives the present device set and handles any devnode
// missing from the job map as if it had just been added, closing the
// window a missed uevent would otherwise leave open.
func (s *Supervisor) reconcile() {
	utils.SetProcTitle(s.title())
	for _, devnode := range s.enumerate() {
		s.handleAdd(devnode)
	}
}

// Jobs returns a snapshot of every currently tracked child process, for
// the status endpoint.
func (s *Supervisor) Jobs() []JobInfo {
	return s.jobs.snapshot()
}

func (s *Supervisor) title() string {
	return "interception-supervisor [" + strconv.Itoa(s.jobs.count()) + " jobs]"
}

// udevLinks is a best-effort lookup of the by-id/by-path symlinks
// pointing at devnode, used by Rule.Link. Absence of the symlink
// directories is not an error; LINK rules simply never match.
func udevLinks(devnode string) []string {
	var links []string
	for _, dir := range []string{"/dev/input/by-id", "/dev/input/by-path"} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			target, err := filepath.EvalSymlinks(full)
			if err == nil && target == devnode {
				links = append(links, full)
			}
		}
	}
	return links
}
