package receiving

import "errors"

var (
	ErrPulltagNotFound = errors.New("pulltag line not found")
	ErrPulltagClosed   = errors.New("pulltag line is cancelled or fully received")
	ErrOverReceipt     = errors.New("receipt would exceed the ordered quantity")
	ErrScanSplit       = errors.New("quantity does not split evenly across the scan codes")
	ErrDuplicateLine   = errors.New("pulltag line already exists")
	ErrNotReceivingLoc = errors.New("receipts must land in a receiving location")
)
