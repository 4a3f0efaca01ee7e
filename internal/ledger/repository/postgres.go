package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/waretrack/inventory-service/internal/ledger/dto"
	"github.com/waretrack/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := r.DB.GetContext(ctx, &loc, `SELECT * FROM locations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

func (r *PGRepository) GetLevel(ctx context.Context, warehouse, locationID, itemCode string) (*model.InventoryLevel, error) {
	var level model.InventoryLevel
	query := `SELECT * FROM current_inventory WHERE warehouse = $1 AND location_id = $2 AND item_code = $3`
	err := r.DB.GetContext(ctx, &level, query, warehouse, locationID, itemCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Caller creates the zero level
		}
		return nil, err
	}
	return &level, nil
}

func (r *PGRepository) GetPlacement(ctx context.Context, scanCode string) (*model.ScanPlacement, error) {
	var p model.ScanPlacement
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM current_scan_location WHERE scan_code = $1`, scanCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) ApplyBatch(ctx context.Context, batch *dto.Batch) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsertLevel := `
        INSERT INTO current_inventory (id, warehouse, location_id, item_code, quantity, updated_at)
        VALUES (:id, :warehouse, :location_id, :item_code, :quantity, :updated_at)
        ON CONFLICT (warehouse, location_id, item_code)
        DO UPDATE SET
            quantity = EXCLUDED.quantity,
            updated_at = EXCLUDED.updated_at
    `
	for i := range batch.Levels {
		if _, err = tx.NamedExecContext(ctx, upsertLevel, batch.Levels[i]); err != nil {
			return fmt.Errorf("failed to upsert inventory level: %w", err)
		}
	}

	insertPlace := `
        INSERT INTO current_scan_location (scan_code, warehouse, location_id, item_code, placed_at, placed_by)
        VALUES (:scan_code, :warehouse, :location_id, :item_code, :placed_at, :placed_by)
    `
	for i := range batch.Places {
		if _, err = tx.NamedExecContext(ctx, insertPlace, batch.Places[i]); err != nil {
			return fmt.Errorf("failed to place scan: %w", err)
		}
	}

	moveScan := `
        UPDATE current_scan_location
        SET location_id = :to_location_id, placed_at = :moved_at, placed_by = :moved_by
        WHERE scan_code = :scan_code
    `
	for i := range batch.Moves {
		m := batch.Moves[i]
		res, err := tx.NamedExecContext(ctx, moveScan, map[string]interface{}{
			"scan_code":      m.ScanCode,
			"to_location_id": m.ToLocationID,
			"moved_at":       m.MovedAt,
			"moved_by":       m.MovedBy,
		})
		if err != nil {
			return fmt.Errorf("failed to move scan: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("scan %s vanished during posting", m.ScanCode)
		}
	}

	if len(batch.Releases) > 0 {
		query, args, err := sqlx.In(`DELETE FROM current_scan_location WHERE scan_code IN (?)`, batch.Releases)
		if err != nil {
			return err
		}
		query = tx.Rebind(query)
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to release scans: %w", err)
		}
	}

	insertVerification := `
        INSERT INTO scan_verifications (id, scan_code, warehouse, location_id, item_code, status, note, scanned_by, scanned_at)
        VALUES (:id, :scan_code, :warehouse, :location_id, :item_code, :status, :note, :scanned_by, :scanned_at)
    `
	for i := range batch.Verifications {
		if _, err = tx.NamedExecContext(ctx, insertVerification, batch.Verifications[i]); err != nil {
			return fmt.Errorf("failed to record verification: %w", err)
		}
	}

	insertTransaction := `
        INSERT INTO transactions (
            id, warehouse, item_code, location_id, transaction_type,
            quantity_change, quantity_before, quantity_after,
            scan_code, reference_type, reference_id, note, created_by, created_at
        )
        VALUES (
            :id, :warehouse, :item_code, :location_id, :transaction_type,
            :quantity_change, :quantity_before, :quantity_after,
            :scan_code, :reference_type, :reference_id, :note, :created_by, :created_at
        )
    `
	for i := range batch.Transactions {
		if _, err = tx.NamedExecContext(ctx, insertTransaction, batch.Transactions[i]); err != nil {
			return fmt.Errorf("failed to write ledger row: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) RecordVerification(ctx context.Context, v *model.ScanVerification) error {
	query := `
        INSERT INTO scan_verifications (id, scan_code, warehouse, location_id, item_code, status, note, scanned_by, scanned_at)
        VALUES (:id, :scan_code, :warehouse, :location_id, :item_code, :status, :note, :scanned_by, :scanned_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, v)
	return err
}

func (r *PGRepository) ListTransactions(ctx context.Context, f *dto.TransactionFilters) ([]model.Transaction, int, error) {
	var items []model.Transaction
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Warehouse != "" {
		conditions = append(conditions, "warehouse = :warehouse")
		args["warehouse"] = f.Warehouse
	}
	if f.ItemCode != "" {
		conditions = append(conditions, "item_code = :item_code")
		args["item_code"] = f.ItemCode
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.TransactionType != "" {
		conditions = append(conditions, "transaction_type = :transaction_type")
		args["transaction_type"] = f.TransactionType
	}
	if f.ReferenceID != "" {
		conditions = append(conditions, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM transactions" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM transactions" + whereClause + " ORDER BY created_at DESC"
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

func (r *PGRepository) ListVerifications(ctx context.Context, f *dto.VerificationFilters) ([]model.ScanVerification, int, error) {
	var items []model.ScanVerification
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Warehouse != "" {
		conditions = append(conditions, "warehouse = :warehouse")
		args["warehouse"] = f.Warehouse
	}
	if f.ScanCode != "" {
		conditions = append(conditions, "scan_code = :scan_code")
		args["scan_code"] = f.ScanCode
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM scan_verifications" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM scan_verifications" + whereClause + " ORDER BY scanned_at DESC"
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
