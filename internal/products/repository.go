package products

import (
	"context"
	"database/sql"

	"github.com/mkrogh/shop-backend/internal/domain"
)

// Repository is the uniform CRUD contract for products. Get returns nil
// without an error when the id is absent; writes report the affected row
// count and a count of zero means the store rejected the write.
type Repository interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Insert(ctx context.Context, product domain.Product) (int64, error)
	Update(ctx context.Context, product domain.Product) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price, currency, rebate_quantity, rebate_percent, upsell_product_id, image_url
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Currency, &p.RebateQuantity, &p.RebatePercent, &p.UpsellProductID, &p.ImageURL); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, currency, rebate_quantity, rebate_percent, upsell_product_id, image_url
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Currency, &p.RebateQuantity, &p.RebatePercent, &p.UpsellProductID, &p.ImageURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}

func (r *ProductRepository) Insert(ctx context.Context, product domain.Product) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price, currency, rebate_quantity, rebate_percent, upsell_product_id, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, product.ID, product.Name, product.Price, product.Currency, product.RebateQuantity, product.RebatePercent, product.UpsellProductID, product.ImageURL)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, price = $3, currency = $4, rebate_quantity = $5, rebate_percent = $6, upsell_product_id = $7, image_url = $8
		WHERE id = $1
	`, product.ID, product.Name, product.Price, product.Currency, product.RebateQuantity, product.RebatePercent, product.UpsellProductID, product.ImageURL)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM products
		WHERE id = $1
	`, id)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
