package store

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrTableNotReady     = errors.New("table is not ready for guests")
	ErrTableBusy         = errors.New("table has an open order")
	ErrItemUnavailable   = errors.New("menu item is not available")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrNotDelivery       = errors.New("order is not a delivery order")
	ErrAlreadyAssigned   = errors.New("order already has a driver")
	ErrDriverOffline     = errors.New("driver is offline")
	ErrDriverHasOrders   = errors.New("driver still has active orders")
	ErrInvalidTableState = errors.New("invalid table state")
)
