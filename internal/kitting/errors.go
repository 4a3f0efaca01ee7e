package kitting

import "errors"

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrNotKit         = errors.New("item is not a kit")
	ErrNoComponents   = errors.New("kit build requires at least one component")
	ErrReasonRequired = errors.New("adjustment reason is required")
	ErrScanSplit      = errors.New("quantity does not split evenly across scan codes")
	ErrPackMismatch   = errors.New("unit scan count does not match pack quantity")
	ErrNotPacked      = errors.New("item has no pack quantity")
)
