//go:build linux

package supervisor

import (
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/interception-tools/core/internal/ierrors"
)

// jobLaunchStagger is the delay between successive sub-commands of a
// multi-entry Rule.Jobs, mirroring udevmon.cpp's "50ms * i" stagger.
const jobLaunchStagger = 50 * time.Millisecond

// jobs is the supervisor's process record: devnode path -> tracked
// child process groups. Bare commands are tracked under their own
// synthetic key so teardown reaches them too.
type jobs struct {
	mu    sync.Mutex
	byKey map[string][]*job
}

type job struct {
	id   uuid.UUID
	cmd  *exec.Cmd
	pgid int
}

func newJobs() *jobs { return &jobs{byKey: make(map[string][]*job)} }

// spawn runs "sh -c template" (or shell+template if shell is non-empty)
// in its own process group with an environment limited to
// DEVNODE=devnode. devnode is "" for a bare command.
func spawn(shell []string, template, devnode string) (*job, error) {
	if len(shell) == 0 {
		shell = []string{"sh", "-c"}
	}
	args := append(append([]string{}, shell[1:]...), template)
	cmd := exec.Command(shell[0], args...)
	cmd.Env = []string{}
	if devnode != "" {
		cmd.Env = []string{"DEVNODE=" + devnode}
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, ierrors.New(ierrors.KindSpawn, "spawn job", err)
	}

	return &job{id: uuid.New(), cmd: cmd, pgid: cmd.Process.Pid}, nil
}

// spawnAll launches every entry in rule.Jobs under key, staggering
// successive launches by jobLaunchStagger, and records each started
// process. It stops and returns on the first spawn failure; jobs already
// started are left running (the caller's terminate(key) can clean them
// up if it chooses).
func (j *jobs) spawnAll(key string, rule Rule, devnode string) error {
	for i, template := range rule.Jobs {
		if i > 0 {
			time.Sleep(jobLaunchStagger)
		}
		jb, err := spawn(rule.Shell, template, devnode)
		if err != nil {
			return err
		}
		j.add(key, jb)
	}
	return nil
}

func (j *jobs) add(key string, jb *job) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.byKey[key] = append(j.byKey[key], jb)
}

// has reports whether key already has a tracked job, implementing the
// "one pipeline per devnode" invariant: reappearance requires prior
// teardown.
func (j *jobs) has(key string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.byKey[key]) > 0
}

// terminate signals every process group tracked under key with SIGTERM
// and forgets them.
func (j *jobs) terminate(key string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, jb := range j.byKey[key] {
		_ = syscall.Kill(-jb.pgid, syscall.SIGTERM)
	}
	delete(j.byKey, key)
}

// terminateAll signals every tracked process group, used on supervisor
// shutdown.
func (j *jobs) terminateAll() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for key, list := range j.byKey {
		for _, jb := range list {
			_ = syscall.Kill(-jb.pgid, syscall.SIGTERM)
		}
		delete(j.byKey, key)
	}
}

// JobInfo is a read-only snapshot of one tracked child process, used by
// the status endpoint.
type JobInfo struct {
	Key string
	ID  uuid.UUID
	Pid int
}

// snapshot returns a point-in-time copy of every tracked job.
func (j *jobs) snapshot() []JobInfo {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]JobInfo, 0, len(j.byKey))
	for key, list := range j.byKey {
		for _, jb := range list {
			out = append(out, JobInfo{Key: key, ID: jb.id, Pid: jb.cmd.Process.Pid})
		}
	}
	return out
}

// count returns the number of currently tracked child processes, used
// for the process-title update.
func (j *jobs) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, list := range j.byKey {
		n += len(list)
	}
	return n
}

// reapOne performs one non-blocking wait4 for any exited child, as the
// SIGCHLD handler does. It returns false when there was nothing
// to reap.
func reapOne() bool {
	var ws syscall.WaitStatus
	pid, err := syscall.Wait4(-1, &ws, syscall.WNOHANG, nil)
	return err == nil && pid > 0
}
