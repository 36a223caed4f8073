package model

type SortColumn int

const (
	SortName SortColumn = iota
	SortCPU
	SortRAM
	SortPID
	SortThreads
)

func (c SortColumn) String() string {
	switch c {
	case SortName:
		return "name"
	case SortCPU:
		return "cpu"
	case SortRAM:
		return "ram"
	case SortPID:
		return "pid"
	case SortThreads:
		return "threads"
	}
	return "unknown"
}

// SortSpec is the active sort column plus direction.
type SortSpec struct {
	Column SortColumn
	Desc   bool
}

// DefaultDirection reports the natural direction for a column: names read
// best ascending, every numeric column descending.
func DefaultDirection(column SortColumn) bool {
	return column != SortName
}

// Toggle applies the column-selection rule: re-selecting the active column
// flips direction, selecting a new column resets to its natural default.
func (s SortSpec) Toggle(column SortColumn) SortSpec {
	if s.Column == column {
		return SortSpec{Column: column, Desc: !s.Desc}
	}
	return SortSpec{Column: column, Desc: DefaultDirection(column)}
}
