package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exepta/appscope/pkg/model"
)

func ids(entries []model.AppEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.AppID
	}
	return out
}

func TestSortEntriesByRAMDesc(t *testing.T) {
	entries := []model.AppEntry{
		{AppID: "small", RSSBytes: 100},
		{AppID: "big", RSSBytes: 900},
		{AppID: "mid", RSSBytes: 500},
	}
	sortEntries(entries, model.SortSpec{Column: model.SortRAM, Desc: true})
	assert.Equal(t, []string{"big", "mid", "small"}, ids(entries))
}

func TestSortEntriesNameCaseFolding(t *testing.T) {
	entries := []model.AppEntry{
		{AppID: "z", Name: "zed"},
		{AppID: "F2", Name: "firefox"},
		{AppID: "F1", Name: "Firefox"},
		{AppID: "a", Name: "Alacritty"},
	}
	sortEntries(entries, model.SortSpec{Column: model.SortName, Desc: false})
	// Case-insensitive first, exact spelling breaks the firefox pair:
	// uppercase 'F' sorts before lowercase 'f'.
	assert.Equal(t, []string{"a", "F1", "F2", "z"}, ids(entries))
}

func TestSortEntriesTiebreakChain(t *testing.T) {
	entries := []model.AppEntry{
		{AppID: "c", Name: "same", RSSBytes: 100, CPUPercent: 5, PID: 30},
		{AppID: "a", Name: "same", RSSBytes: 200, CPUPercent: 1, PID: 20},
		{AppID: "b", Name: "same", RSSBytes: 100, CPUPercent: 5, PID: 10},
		{AppID: "d", Name: "same", RSSBytes: 100, CPUPercent: 9, PID: 40},
	}
	sortEntries(entries, model.SortSpec{Column: model.SortName, Desc: false})
	// Equal names fall through to RAM desc, then CPU desc, then pid asc.
	assert.Equal(t, []string{"a", "d", "b", "c"}, ids(entries))
}

func TestSortEntriesStableAcrossRuns(t *testing.T) {
	entries := []model.AppEntry{
		{AppID: "x", CPUPercent: 50, RSSBytes: 10, PID: 2},
		{AppID: "y", CPUPercent: 50, RSSBytes: 10, PID: 1},
	}
	for i := 0; i < 3; i++ {
		sortEntries(entries, model.SortSpec{Column: model.SortCPU, Desc: true})
		assert.Equal(t, []string{"y", "x"}, ids(entries))
	}
}
