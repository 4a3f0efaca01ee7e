package item

import "errors"

var (
	ErrNotFound  = errors.New("item not found")
	ErrCodeTaken = errors.New("item code already exists")
)
