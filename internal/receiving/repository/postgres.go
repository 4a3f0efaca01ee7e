package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/waretrack/inventory-service/internal/model"
	"github.com/waretrack/inventory-service/internal/receiving/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Pulltag) error {
	query := `
        INSERT INTO pulltags (
            id, warehouse, pulltag_number, line_no, item_code,
            quantity_ordered, quantity_received, status, job_number, created_at, updated_at
        )
        VALUES (
            :id, :warehouse, :pulltag_number, :line_no, :item_code,
            :quantity_ordered, :quantity_received, :status, :job_number, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Pulltag, error) {
	var p model.Pulltag
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM pulltags WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindByNumberLine(ctx context.Context, warehouse, pulltagNumber string, lineNo int) (*model.Pulltag, error) {
	var p model.Pulltag
	query := `SELECT * FROM pulltags WHERE warehouse = $1 AND pulltag_number = $2 AND line_no = $3 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, warehouse, pulltagNumber, lineNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.PulltagFilters) ([]model.Pulltag, int, error) {
	var tags []model.Pulltag
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Warehouse != "" {
		conditions = append(conditions, "warehouse = :warehouse")
		args["warehouse"] = f.Warehouse
	}
	if f.PulltagNumber != "" {
		conditions = append(conditions, "pulltag_number = :pulltag_number")
		args["pulltag_number"] = f.PulltagNumber
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.ItemCode != "" {
		conditions = append(conditions, "item_code = :item_code")
		args["item_code"] = f.ItemCode
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM pulltags" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM pulltags" + whereClause + " ORDER BY pulltag_number, line_no"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &tags, args)
	return tags, count, err
}

func (r *PGRepository) UpdateReceipt(ctx context.Context, id string, quantityReceived float64, status string) error {
	query := `UPDATE pulltags SET quantity_received = $1, status = $2, updated_at = $3 WHERE id = $4`
	_, err := r.DB.ExecContext(ctx, query, quantityReceived, status, time.Now(), id)
	return err
}
