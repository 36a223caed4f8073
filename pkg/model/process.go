package model

// ProcessSample is one OS process as observed during a single refresh tick.
// Samples are rebuilt from scratch every tick and never persisted.
type ProcessSample struct {
	PID     int32
	PPID    int32
	UID     uint32
	Name    string
	Exe     string
	Cmdline []string

	// CPUPercent is raw percent of one core's worth of time since the
	// previous tick; it can exceed 100 for multi-threaded processes.
	CPUPercent float64
	RSSBytes   uint64
	Threads    int32
}

// Argv0 returns the first command-line token, or "" when the kernel exposes
// an empty cmdline.
func (s ProcessSample) Argv0() string {
	if len(s.Cmdline) == 0 {
		return ""
	}
	return s.Cmdline[0]
}
