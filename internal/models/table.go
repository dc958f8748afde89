package models

import (
	"errors"
	"fmt"
)

// TableStatus represents the floor state of a table
type TableStatus string

const (
	TableStatusAvailable TableStatus = "AVAILABLE"
	TableStatusOccupied  TableStatus = "OCCUPIED"
	TableStatusReserved  TableStatus = "RESERVED"
	TableStatusDirty     TableStatus = "DIRTY"
)

var ErrInvalidTableStatus = errors.New("invalid table status")

func ParseTableStatus(s string) (TableStatus, error) {
	switch t := TableStatus(s); t {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved, TableStatusDirty:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTableStatus, s)
}

// Table is a seat group on the floor plan
type Table struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Capacity       int         `json:"capacity"`
	Status         TableStatus `json:"status"`
	CurrentOrderID string      `json:"current_order_id,omitempty"`
}

// DefaultCapacity mirrors the floor plan layout: every fourth table seats six,
// every third of the rest seats two, everything else seats four.
func DefaultCapacity(index int) int {
	switch {
	case index%4 == 0:
		return 6
	case index%3 == 0:
		return 2
	default:
		return 4
	}
}
