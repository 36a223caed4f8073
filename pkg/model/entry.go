package model

// AppEntry is the per-tick rollup of every process that resolved to the same
// application identity. The entry list is fully replaced each tick; entries
// only "survive" by recomputed equality of AppID.
type AppEntry struct {
	AppID string
	Name  string
	Icon  string

	// PID is the representative pid: the smallest among contributing processes.
	PID int32

	// CPUPercent is the per-core-normalized sum over contributing processes,
	// clamped to [0,100].
	CPUPercent float64

	// RSSBytes is the largest single-process RSS, not the sum. This reflects
	// the dominant process rather than the application's total footprint.
	RSSBytes uint64

	// Threads is the summed task count, never below 1.
	Threads int32
}

// SelectedApp is the subject of a pending user action. It is created when the
// action menu opens and cleared when the menu closes or the action completes.
type SelectedApp struct {
	AppID string
	Name  string
	PID   int32
}
