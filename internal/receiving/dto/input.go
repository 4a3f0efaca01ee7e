package dto

type ReceiveLineInput struct {
	PulltagID  string
	LocationID string
	Quantity   float64
	ScanCodes  []string
	Note       string
	UserID     string
}

type PulltagLineInput struct {
	LineNo   int
	ItemCode string
	Quantity float64
}

type CreatePulltagsInput struct {
	Warehouse     string
	PulltagNumber string
	JobNumber     string
	Lines         []PulltagLineInput
}

type PulltagFilters struct {
	Warehouse     string
	PulltagNumber string
	Status        string
	ItemCode      string
	Page          int
	PageSize      int
}

// ImportRowError reports one rejected CSV row by its 1-based line number.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
}
