package engine

import (
	"sort"
	"strings"

	"github.com/exepta/appscope/pkg/model"
)

// sortEntries orders entries by the chosen column and direction, then by the
// fixed tiebreak chain so the list never flickers between equal rows: RAM
// descending, CPU descending, pid ascending.
func sortEntries(entries []model.AppEntry, spec model.SortSpec) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if c := compareColumn(a, b, spec.Column); c != 0 {
			if spec.Desc {
				return c > 0
			}
			return c < 0
		}
		if a.RSSBytes != b.RSSBytes {
			return a.RSSBytes > b.RSSBytes
		}
		if a.CPUPercent != b.CPUPercent {
			return a.CPUPercent > b.CPUPercent
		}
		return a.PID < b.PID
	})
}

// compareColumn returns -1, 0, or 1 in the column's natural ascending order.
func compareColumn(a, b model.AppEntry, column model.SortColumn) int {
	switch column {
	case model.SortName:
		return compareNames(a.Name, b.Name)
	case model.SortCPU:
		return compareFloat(a.CPUPercent, b.CPUPercent)
	case model.SortRAM:
		return compareUint(a.RSSBytes, b.RSSBytes)
	case model.SortPID:
		return compareInt(a.PID, b.PID)
	case model.SortThreads:
		return compareInt(a.Threads, b.Threads)
	}
	return 0
}

// compareNames folds case first so "firefox" and "Firefox" sort together,
// with the exact spelling as a deterministic tiebreak.
func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
