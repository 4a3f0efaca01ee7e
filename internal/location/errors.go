package location

import "errors"

var (
	ErrNotFound     = errors.New("location not found")
	ErrCodeTaken    = errors.New("location code already exists in this warehouse")
	ErrInvalidKind  = errors.New("invalid location kind")
	ErrHoldingStock = errors.New("location still holds stock")
)
