package models

import (
	"errors"
	"fmt"
)

// DriverStatus represents a delivery driver's availability
type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "AVAILABLE"
	DriverStatusBusy      DriverStatus = "BUSY"
	DriverStatusOffline   DriverStatus = "OFFLINE"
)

var ErrInvalidDriverStatus = errors.New("invalid driver status")

func ParseDriverStatus(s string) (DriverStatus, error) {
	switch d := DriverStatus(s); d {
	case DriverStatusAvailable, DriverStatusBusy, DriverStatusOffline:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDriverStatus, s)
}

// Driver delivers orders. UserID links the driver to a staff login so the
// driver app can receive pushes.
type Driver struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Status       DriverStatus `json:"status"`
	ActiveOrders int          `json:"active_orders"`
	Phone        string       `json:"phone"`
	UserID       string       `json:"user_id,omitempty"`
	DeviceToken  string       `json:"-"`
}

// CanTakeOrders returns false for offline drivers
func (d *Driver) CanTakeOrders() bool {
	return d.Status != DriverStatusOffline
}
