package ledger

import "errors"

var (
	ErrEmptyPosting      = errors.New("posting has no entries")
	ErrDuplicateScan     = errors.New("scan code already placed at this location")
	ErrScanConflict      = errors.New("scan code already placed at another location")
	ErrScanNotFound      = errors.New("scan code is not tracked")
	ErrWrongLocation     = errors.New("scan code is not at the stated source location")
	ErrWarehouseMismatch = errors.New("location belongs to another warehouse")
	ErrLocationNotFound  = errors.New("location not found")
	ErrLocationInactive  = errors.New("location is inactive")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrBusy              = errors.New("system busy, please try again later (lock)")
)
