package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/core/port"
)

var _ port.SalesStorage = (*SalesRepository)(nil)

type SalesRepository struct {
	sqldb sqldb
}

func NewSalesRepository(sqldb sqldb) SalesRepository {
	return SalesRepository{sqldb}
}

// CreateSale commits the whole sale in one transaction: every product
// row is locked, stock is verified and decremented, and a SALE stock
// movement is recorded per item. Any failure rolls the sale back.
func (r SalesRepository) CreateSale(
	ctx context.Context, draft domain.SaleDraft,
) (sale domain.Sale, saleErr error) {
	const op = "SalesRepository.CreateSale"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer func() {
		if saleErr == nil {
			if err := tx.Commit(); err != nil {
				saleErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}
		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	var total float64
	for _, it := range draft.Items {
		if err := r.reserveStock(ctx, tx, it); err != nil {
			return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
		}
		total += it.LineTotal()
	}

	sale = domain.Sale{
		Total:         total,
		PaymentMethod: draft.PaymentMethod,
		Items:         draft.Items,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO sales (total, payment_method)
		VALUES ($1, $2)
		RETURNING id, created_at;`,
		sale.Total, string(sale.PaymentMethod),
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, it := range draft.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, product_id, qty, unit_price)
			VALUES ($1, $2, $3, $4);`,
			sale.ID, it.ProductID, it.Qty, it.UnitPrice,
		)
		if err != nil {
			return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO stock_movements (product_id, change, reason, reference)
			VALUES ($1, $2, $3, $4);`,
			it.ProductID, -it.Qty, string(domain.StockReasonSale),
			fmt.Sprintf("sale:%d", sale.ID),
		)
		if err != nil {
			return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	return sale, nil
}

func (r SalesRepository) reserveStock(
	ctx context.Context, tx *sql.Tx, it domain.SaleItem,
) error {
	var (
		name  string
		stock int
	)
	err := tx.QueryRowContext(ctx, `
		SELECT name, stock FROM products
		WHERE id = $1
		FOR UPDATE;`, it.ProductID,
	).Scan(&name, &stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return err
	}

	if stock < it.Qty {
		return &domain.InsufficientStockError{
			ProductName: name,
			Available:   stock,
			Requested:   it.Qty,
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1;`, it.ProductID, it.Qty,
	)
	return err
}

func (r SalesRepository) ListSales(ctx context.Context) ([]domain.Sale, error) {
	const op = "SalesRepository.ListSales"

	query := `
		SELECT s.id, s.total, s.payment_method, s.created_at,
			i.product_id, i.qty, i.unit_price
		FROM sales s
		JOIN sale_items i ON i.sale_id = s.id
		ORDER BY s.id DESC, i.id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var (
		sales []domain.Sale
		cur   *domain.Sale
	)
	for rows.Next() {
		var (
			s  domain.Sale
			it domain.SaleItem
		)
		err := rows.Scan(&s.ID, &s.Total, &s.PaymentMethod, &s.CreatedAt,
			&it.ProductID, &it.Qty, &it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if cur == nil || cur.ID != s.ID {
			sales = append(sales, s)
			cur = &sales[len(sales)-1]
		}
		cur.Items = append(cur.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sales, nil
}

func (r SalesRepository) SalesInRange(
	ctx context.Context, from, to time.Time,
) ([]domain.Sale, error) {
	const op = "SalesRepository.SalesInRange"

	query := `
		SELECT id, total, payment_method, created_at
		FROM sales
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		var s domain.Sale
		err := rows.Scan(&s.ID, &s.Total, &s.PaymentMethod, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sales, nil
}

func (r SalesRepository) SaleRowsInRange(
	ctx context.Context, from, to time.Time,
) ([]domain.SaleCSVRow, error) {
	const op = "SalesRepository.SaleRowsInRange"

	query := `
		SELECT s.id, s.created_at, s.payment_method, s.total,
			p.id, p.name, i.qty, i.unit_price
		FROM sales s
		JOIN sale_items i ON i.sale_id = s.id
		JOIN products p ON p.id = i.product_id
		WHERE s.created_at >= $1 AND s.created_at < $2
		ORDER BY s.id ASC, i.id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []domain.SaleCSVRow
	for rows.Next() {
		var row domain.SaleCSVRow
		err := rows.Scan(
			&row.SaleID, &row.SaleDatetime, &row.PaymentMethod, &row.SaleTotal,
			&row.ProductID, &row.ProductName, &row.Qty, &row.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		row.LineTotal = float64(row.Qty) * row.UnitPrice
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
