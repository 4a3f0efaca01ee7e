package usecase

import (
	"context"
	"strings"

	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"github.com/waretrack/inventory-service/internal/query"
	"github.com/waretrack/inventory-service/internal/query/dto"
	"go.uber.org/zap"
)

type queryUseCase struct {
	generator query.Generator
	executor  query.Executor
	logger    logger.ZapLogger
}

func NewQueryUseCase(gen query.Generator, exec query.Executor, log logger.ZapLogger) query.UseCase {
	return &queryUseCase{
		generator: gen,
		executor:  exec,
		logger:    log,
	}
}

func (uc *queryUseCase) Ask(ctx context.Context, input *dto.AskInput) (*dto.Result, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, query.ErrEmptyQuery
	}

	sql, err := uc.generator.Generate(ctx, input.Question)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("console question translated",
		zap.String("user_id", input.UserID),
		zap.String("sql", sql),
	)

	if err := query.ValidateReadOnly(sql, input.Admin); err != nil {
		// The model produced something the guard won't run; surface it with
		// the SQL so the console can show what was refused.
		uc.logger.Warn("generated sql rejected", zap.String("sql", sql), zap.Error(err))
		return nil, err
	}
	return uc.executor.Execute(ctx, sql)
}

func (uc *queryUseCase) Run(ctx context.Context, input *dto.RunInput) (*dto.Result, error) {
	if err := query.ValidateReadOnly(input.SQL, input.Admin); err != nil {
		return nil, err
	}
	return uc.executor.Execute(ctx, input.SQL)
}
