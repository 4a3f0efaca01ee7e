package dto

type AskInput struct {
	Question string
	Admin    bool
	UserID   string
}

type RunInput struct {
	SQL    string
	Admin  bool
	UserID string
}

// Result is the console's tabular answer. SQL echoes what actually ran,
// generated or not.
type Result struct {
	SQL       string          `json:"sql"`
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	RowCount  int             `json:"row_count"`
	Truncated bool            `json:"truncated"`
}
