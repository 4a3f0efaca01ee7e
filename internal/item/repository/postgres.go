package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/waretrack/inventory-service/internal/item/dto"
	"github.com/waretrack/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, it *model.Item) error {
	query := `
        INSERT INTO items_master (id, item_code, description, uom, kit, pack_quantity, active, created_at, updated_at)
        VALUES (:id, :item_code, :description, :uom, :kit, :pack_quantity, :active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, it)
	return err
}

func (r *PGRepository) Update(ctx context.Context, it *model.Item) error {
	query := `
        UPDATE items_master
        SET item_code = :item_code, description = :description, uom = :uom,
            kit = :kit, pack_quantity = :pack_quantity, active = :active, updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, it)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	err := r.DB.GetContext(ctx, &it, `SELECT * FROM items_master WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *PGRepository) FindByCode(ctx context.Context, itemCode string) (*model.Item, error) {
	var it model.Item
	err := r.DB.GetContext(ctx, &it, `SELECT * FROM items_master WHERE item_code = $1 LIMIT 1`, itemCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ItemFilters) ([]model.Item, int, error) {
	var items []model.Item
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SearchQuery != "" {
		conditions = append(conditions, "(item_code ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.Kit != nil {
		conditions = append(conditions, "kit = :kit")
		args["kit"] = *f.Kit
	}
	if f.Active != nil {
		conditions = append(conditions, "active = :active")
		args["active"] = *f.Active
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM items_master" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM items_master" + whereClause + " ORDER BY item_code"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) IsCodeUnique(ctx context.Context, itemCode, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM items_master WHERE item_code = $1`
	args := []interface{}{itemCode}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}
	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}
