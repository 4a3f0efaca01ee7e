package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/waretrack/inventory-service/internal/location/dto"
	"github.com/waretrack/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, loc *model.Location) error {
	query := `
        INSERT INTO locations (id, warehouse, code, kind, active, created_at)
        VALUES (:id, :warehouse, :code, :kind, :active, :created_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, loc)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := r.DB.GetContext(ctx, &loc, `SELECT * FROM locations WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *PGRepository) FindByCode(ctx context.Context, warehouse, code string) (*model.Location, error) {
	var loc model.Location
	query := `SELECT * FROM locations WHERE warehouse = $1 AND code = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &loc, query, warehouse, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.LocationFilters) ([]model.Location, int, error) {
	var locations []model.Location
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Warehouse != "" {
		conditions = append(conditions, "warehouse = :warehouse")
		args["warehouse"] = f.Warehouse
	}
	if f.Kind != "" {
		conditions = append(conditions, "kind = :kind")
		args["kind"] = f.Kind
	}
	if f.Active != nil {
		conditions = append(conditions, "active = :active")
		args["active"] = *f.Active
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM locations" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM locations" + whereClause + " ORDER BY warehouse, code"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &locations, args)
	return locations, count, err
}

func (r *PGRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE locations SET active = $1 WHERE id = $2`, active, id)
	return err
}

func (r *PGRepository) HasStock(ctx context.Context, locationID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM current_inventory WHERE location_id = $1 AND quantity > 0)`
	err := r.DB.GetContext(ctx, &exists, query, locationID)
	return exists, err
}
