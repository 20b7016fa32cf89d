package models

import "fmt"

// SortColumn names a sortable table column.
type SortColumn string

const (
	SortByDate        SortColumn = "date"
	SortByDescription SortColumn = "description"
	SortByAmount      SortColumn = "amount"
	SortByCategory    SortColumn = "category"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortState is the table ordering currently in effect.
type SortState struct {
	Column    SortColumn    `json:"column"`
	Direction SortDirection `json:"direction"`
}

// DefaultSortState orders newest first.
func DefaultSortState() SortState {
	return SortState{Column: SortByDate, Direction: Descending}
}

// ParseSortColumn validates a column name.
func ParseSortColumn(s string) (SortColumn, error) {
	switch c := SortColumn(s); c {
	case SortByDate, SortByDescription, SortByAmount, SortByCategory:
		return c, nil
	default:
		return "", fmt.Errorf("unknown sort column %q", s)
	}
}

// ParseSortDirection validates a direction name.
func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(s); d {
	case Ascending, Descending:
		return d, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// Toggle returns the opposite direction.
func (d SortDirection) Toggle() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}
