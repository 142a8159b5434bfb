package store

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-service/internal/models"
)

// GetOrders retrieves every order for one engine pass, newest first.
func (s *Store) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		`SELECT order_id, company, order_type, status, items_text, delivery_date,
		        contact_name, phone, address, note, created_at
		 FROM orders ORDER BY created_at DESC`)
	return orders, err
}

// GetOrderByID retrieves an order by its external id
func (s *Store) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		`SELECT order_id, company, order_type, status, items_text, delivery_date,
		        contact_name, phone, address, note, created_at
		 FROM orders WHERE order_id = $1`, orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %s", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus applies a status command and returns the previous status.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status string) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var old string
	err = tx.GetContext(ctx, &old,
		"SELECT status FROM orders WHERE order_id = $1 FOR UPDATE", orderID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("order not found: %s", orderID)
	}
	if err != nil {
		return "", err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE order_id = $2",
		status, orderID)
	if err != nil {
		return "", fmt.Errorf("failed to update order status: %w", err)
	}

	return old, tx.Commit()
}

// UpdateOrderDetails applies a contact/address/note command.
func (s *Store) UpdateOrderDetails(ctx context.Context, orderID string, contactName, phone, address, note string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET contact_name = $1, phone = $2, address = $3, note = $4, updated_at = NOW() WHERE order_id = $5",
		contactName, phone, address, note, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order not found: %s", orderID)
	}
	return nil
}

// DeleteOrder removes an order permanently.
func (s *Store) DeleteOrder(ctx context.Context, orderID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE order_id = $1", orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order not found: %s", orderID)
	}
	return nil
}

// GetInventory retrieves every raw ledger row for one engine pass, in ledger
// order. Quantities come back as the raw text the upstream recorded.
func (s *Store) GetInventory(ctx context.Context) ([]models.InventoryBatchRow, error) {
	var rows []models.InventoryBatchRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT product_id, name, spec, packing, usage, lot, qty FROM inventory_rows ORDER BY id")
	return rows, err
}

// GetStocktakeLog retrieves the stocktake report log, newest first.
func (s *Store) GetStocktakeLog(ctx context.Context) ([]models.StocktakeEntry, error) {
	var entries []models.StocktakeEntry
	err := s.db.SelectContext(ctx, &entries,
		`SELECT id, product_id, product_name, counted_qty, note, reported_by,
		        resolved, resolved_at, created_at
		 FROM stocktake_log ORDER BY resolved, created_at DESC`)
	return entries, err
}

// RecordStocktake appends a counted-quantity report to the stocktake log.
func (s *Store) RecordStocktake(ctx context.Context, entry *models.StocktakeEntry) error {
	query := `
		INSERT INTO stocktake_log (product_id, product_name, counted_qty, note, reported_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, entry, query,
		entry.ProductID, entry.ProductName, entry.CountedQty, entry.Note, entry.ReportedBy)
}

// ResolveStocktake closes out a pending stocktake report. Resolving an
// already-closed entry is an error so double submissions surface.
func (s *Store) ResolveStocktake(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE stocktake_log SET resolved = TRUE, resolved_at = NOW() WHERE id = $1 AND NOT resolved",
		id)
	if err != nil {
		return fmt.Errorf("failed to resolve stocktake entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("stocktake entry not found or already resolved: %d", id)
	}
	return nil
}
