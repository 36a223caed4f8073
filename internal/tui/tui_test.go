//go:build linux

package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/exepta/appscope/pkg/model"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}

func TestColumnIndexCoversAllColumns(t *testing.T) {
	seen := make(map[int]bool)
	for _, col := range []model.SortColumn{
		model.SortName, model.SortPID, model.SortCPU, model.SortRAM, model.SortThreads,
	} {
		seen[columnIndex(col)] = true
	}
	assert.Len(t, seen, 5)
}

func TestSortKeysDistinct(t *testing.T) {
	seen := make(map[model.SortColumn]bool)
	for _, col := range sortKeys {
		assert.False(t, seen[col])
		seen[col] = true
	}
	assert.Len(t, seen, 5)
}
