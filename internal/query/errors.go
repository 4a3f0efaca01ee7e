package query

import "errors"

var (
	ErrEmptyQuery         = errors.New("query is empty")
	ErrNotSelect          = errors.New("only SELECT queries are allowed")
	ErrMultipleStatements = errors.New("only a single statement is allowed")
	ErrForbiddenKeyword   = errors.New("statement contains a forbidden keyword")
	ErrSystemCatalog      = errors.New("system catalogs are restricted to administrators")
)
