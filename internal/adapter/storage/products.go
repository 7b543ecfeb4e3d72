package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/core/port"
)

var _ port.ProductsStorage = (*ProductsRepository)(nil)

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

const productColumns = `
	id, name, sku, price, cost, stock, stock_min,
	is_active, created_at, updated_at`

func (r ProductsRepository) CreateProduct(
	ctx context.Context, d domain.ProductDraft,
) (domain.Product, error) {
	const op = "ProductsRepository.CreateProduct"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (name, sku, price, cost, stock, stock_min)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		RETURNING` + productColumns + `;`

	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query,
		d.Name, d.SKU, d.Price, d.Cost, d.Stock, d.StockMin,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrSKUTaken)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r ProductsRepository) ListProducts(
	ctx context.Context, includeInactive bool,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT` + productColumns + `
		FROM products
		WHERE $1 OR is_active
		ORDER BY id DESC;`

	rows, err := r.sqldb.QueryContext(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r ProductsRepository) GetProduct(
	ctx context.Context, id int64,
) (domain.Product, error) {
	const op = "ProductsRepository.GetProduct"

	query := `
		SELECT` + productColumns + `
		FROM products
		WHERE id = $1;`

	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r ProductsRepository) UpdateProduct(
	ctx context.Context, id int64, patch domain.ProductPatch,
) (p domain.Product, updateErr error) {
	const op = "ProductsRepository.UpdateProduct"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}
	defer func() {
		if updateErr == nil {
			if err := tx.Commit(); err != nil {
				updateErr = fmt.Errorf("%s: failed to commit: %w", op, err)
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

	p, err = scanProduct(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	applyPatch(&p, patch)

	update := `
		UPDATE products SET
			name = $2, sku = NULLIF($3, ''), price = $4, cost = $5,
			stock = $6, stock_min = $7, is_active = $8,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at;`

	err = tx.QueryRowContext(ctx, update,
		p.ID, p.Name, p.SKU, p.Price, p.Cost, p.Stock, p.StockMin, p.Active,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrSKUTaken)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r ProductsRepository) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductsRepository.DeleteProduct"

	res, err := r.sqldb.ExecContext(ctx,
		`DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p   domain.Product
		sku sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Name, &sku, &p.Price, &p.Cost, &p.Stock, &p.StockMin,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	p.SKU = sku.String
	return p, nil
}

func applyPatch(p *domain.Product, patch domain.ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Cost != nil {
		p.Cost = *patch.Cost
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.StockMin != nil {
		p.StockMin = *patch.StockMin
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
