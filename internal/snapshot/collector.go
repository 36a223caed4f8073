//go:build linux

// Package snapshot reads the process table and produces per-process samples
// with interval-accurate CPU usage.
package snapshot

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/exepta/appscope/pkg/model"
)

// cpuState remembers the last observed CPU times for delta computation.
type cpuState struct {
	total float64
	at    time.Time
}

// Collector walks the process table. It keeps per-pid CPU accounting between
// calls, so the first snapshot reports zero CPU and later ones report usage
// over the elapsed interval.
type Collector struct {
	log   *zap.Logger
	cores int
	prev  map[int32]cpuState
}

func NewCollector(log *zap.Logger) *Collector {
	cores := runtime.NumCPU()
	if cores < 1 {
		cores = 1
	}
	return &Collector{
		log:   log,
		cores: cores,
		prev:  make(map[int32]cpuState),
	}
}

// Cores reports the logical CPU count used for per-core normalization.
func (c *Collector) Cores() int { return c.cores }

// Snapshot samples every visible process. Processes that disappear or deny
// access mid-read are skipped rather than failing the whole pass.
func (c *Collector) Snapshot(ctx context.Context) ([]model.ProcessSample, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	next := make(map[int32]cpuState, len(procs))
	samples := make([]model.ProcessSample, 0, len(procs))

	for _, p := range procs {
		sample, ok := c.sample(ctx, p, now, next)
		if !ok {
			continue
		}
		samples = append(samples, sample)
	}

	// Forget pids that vanished so the state map cannot grow unbounded.
	c.prev = next
	return samples, nil
}

func (c *Collector) sample(ctx context.Context, p *process.Process, now time.Time, next map[int32]cpuState) (model.ProcessSample, bool) {
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return model.ProcessSample{}, false
	}

	sample := model.ProcessSample{PID: p.Pid, Name: name}

	if ppid, err := p.PpidWithContext(ctx); err == nil {
		sample.PPID = ppid
	}
	if uids, err := p.UidsWithContext(ctx); err == nil && len(uids) > 0 {
		sample.UID = uint32(uids[0])
	}
	if exe, err := p.ExeWithContext(ctx); err == nil {
		sample.Exe = exe
	}
	if cmdline, err := p.CmdlineSliceWithContext(ctx); err == nil {
		sample.Cmdline = cmdline
	}
	if mem, err := p.MemoryInfoWithContext(ctx); err == nil && mem != nil {
		sample.RSSBytes = mem.RSS
	}
	if threads, err := p.NumThreadsWithContext(ctx); err == nil {
		sample.Threads = threads
	}

	if times, err := p.TimesWithContext(ctx); err == nil {
		total := times.User + times.System
		if prev, ok := c.prev[p.Pid]; ok {
			elapsed := now.Sub(prev.at).Seconds()
			if elapsed > 0 && total >= prev.total {
				sample.CPUPercent = (total - prev.total) / elapsed * 100
			}
		}
		next[p.Pid] = cpuState{total: total, at: now}
	}

	return sample, true
}
