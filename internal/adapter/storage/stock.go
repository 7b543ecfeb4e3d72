package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/core/port"
)

var _ port.StockStorage = (*StockRepository)(nil)

type StockRepository struct {
	sqldb sqldb
}

func NewStockRepository(sqldb sqldb) StockRepository {
	return StockRepository{sqldb}
}

// AdjustStock applies a manual stock change and records the movement.
// The resulting stock must not go negative.
func (r StockRepository) AdjustStock(
	ctx context.Context, productID int64, change int,
	reason domain.StockMovementReason, note string,
) (p domain.Product, adjustErr error) {
	const op = "StockRepository.AdjustStock"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer func() {
		if adjustErr == nil {
			if err := tx.Commit(); err != nil {
				adjustErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}
		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		SELECT` + productColumns + `
		FROM products
		WHERE id = $1
		FOR UPDATE;`

	p, err = scanProduct(tx.QueryRowContext(ctx, query, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if p.Stock+change < 0 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNegativeStock)
	}
	p.Stock += change

	err = tx.QueryRowContext(ctx, `
		UPDATE products
		SET stock = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at;`, p.ID, p.Stock,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_movements (product_id, change, reason, reference, note)
		VALUES ($1, $2, $3, 'manual', NULLIF($4, ''));`,
		p.ID, change, string(reason), note,
	)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r StockRepository) ListStockMovements(
	ctx context.Context, productID int64,
) ([]domain.StockMovement, error) {
	const op = "StockRepository.ListStockMovements"

	query := `
		SELECT id, product_id, change, reason,
			COALESCE(reference, ''), COALESCE(note, ''), created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY id DESC;`

	rows, err := r.sqldb.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ms []domain.StockMovement
	for rows.Next() {
		var m domain.StockMovement
		err := rows.Scan(&m.ID, &m.ProductID, &m.Change, &m.Reason,
			&m.Reference, &m.Note, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ms, nil
}
