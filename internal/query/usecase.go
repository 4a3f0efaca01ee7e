package query

import (
	"context"

	"github.com/waretrack/inventory-service/internal/query/dto"
)

type UseCase interface {
	// Ask turns a natural-language question into SQL, guards it, and runs it.
	Ask(ctx context.Context, input *dto.AskInput) (*dto.Result, error)

	// Run executes console-supplied SQL under the same guard and caps.
	Run(ctx context.Context, input *dto.RunInput) (*dto.Result, error)
}

// Generator produces a SQL statement for a natural-language question.
type Generator interface {
	Generate(ctx context.Context, question string) (string, error)
}

// Executor runs a guarded statement and returns the capped result.
type Executor interface {
	Execute(ctx context.Context, sql string) (*dto.Result, error)
}
