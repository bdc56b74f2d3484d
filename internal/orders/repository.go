package orders

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mkrogh/shop-backend/internal/domain"
)

// Repository is the uniform CRUD contract for orders. Get returns nil
// without an error when the id is absent. Writes report the affected row
// count across the whole aggregate; zero means the store rejected the write.
type Repository interface {
	GetAll(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Insert(ctx context.Context, order domain.Order) (int64, error)
	Update(ctx context.Context, order domain.Order) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) GetAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_email, order_date, order_status, check_marketing, submit_comment
		FROM orders
		ORDER BY order_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[uuid.UUID]*domain.Order)
	var orderIDs []uuid.UUID

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.CustomerEmail, &order.OrderDate, &order.Status, &order.CheckMarketing, &order.SubmitComment); err != nil {
			return nil, err
		}
		order.Details = []domain.OrderDetail{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	details, err := loadDetails(ctx, r.db, orderIDs)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		order := orderMap[id]
		order.Details = append(order.Details, details[id]...)
		orders = append(orders, *order)
	}

	return orders, nil
}

func (r *OrderRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order := &domain.Order{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_email, order_date, order_status, check_marketing, submit_comment
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.CustomerEmail, &order.OrderDate, &order.Status, &order.CheckMarketing, &order.SubmitComment)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	details, err := loadDetails(ctx, r.db, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	order.Details = details[id]

	return order, nil
}

func (r *OrderRepository) Insert(ctx context.Context, order domain.Order) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	affected, err := InsertTx(ctx, tx, order)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return affected, nil
}

// Update replaces the mutable scalar fields and the whole detail collection
// with what the caller supplied.
func (r *OrderRepository) Update(ctx context.Context, order domain.Order) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET order_date = $2, order_status = $3, check_marketing = $4, submit_comment = $5
		WHERE id = $1
	`, order.ID, order.OrderDate, order.Status, order.CheckMarketing, order.SubmitComment)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_details WHERE order_id = $1`, order.ID); err != nil {
		return 0, err
	}

	detailRows, err := insertDetailsTx(ctx, tx, order.ID, order.Details)
	if err != nil {
		return 0, err
	}
	affected += detailRows

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return affected, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	// Details go with the order via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM orders
		WHERE id = $1
	`, id)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// InsertTx writes an order aggregate inside an existing transaction. The
// customers repository uses it when replacing a customer's orders wholesale.
func InsertTx(ctx context.Context, tx *sql.Tx, order domain.Order) (int64, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_email, order_date, order_status, check_marketing, submit_comment)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, order.ID, order.CustomerEmail, order.OrderDate, order.Status, order.CheckMarketing, order.SubmitComment)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	detailRows, err := insertDetailsTx(ctx, tx, order.ID, order.Details)
	if err != nil {
		return 0, err
	}

	return affected + detailRows, nil
}

func insertDetailsTx(ctx context.Context, tx execer, orderID uuid.UUID, details []domain.OrderDetail) (int64, error) {
	var affected int64

	for _, detail := range details {
		if detail.ID == uuid.Nil {
			detail.ID = uuid.New()
		}
		result, err := tx.ExecContext(ctx, `
			INSERT INTO order_details (id, order_id, product_id, quantity)
			VALUES ($1, $2, $3, $4)
		`, detail.ID, orderID, detail.ProductID, detail.Quantity)
		if err != nil {
			return 0, err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		affected += n
	}

	return affected, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// LoadByCustomer eagerly loads the orders owned by each given customer,
// details and products included, keyed by customer email.
func LoadByCustomer(ctx context.Context, db *sql.DB, emails []string) (map[string][]domain.Order, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, customer_email, order_date, order_status, check_marketing, submit_comment
		FROM orders
		WHERE customer_email = ANY($1)
		ORDER BY order_date DESC
	`, pq.Array(emails))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[uuid.UUID]*domain.Order)
	var orderIDs []uuid.UUID

	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.CustomerEmail, &order.OrderDate, &order.Status, &order.CheckMarketing, &order.SubmitComment); err != nil {
			return nil, err
		}
		order.Details = []domain.OrderDetail{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	byCustomer := make(map[string][]domain.Order)
	if len(orderIDs) == 0 {
		return byCustomer, nil
	}

	details, err := loadDetails(ctx, db, orderIDs)
	if err != nil {
		return nil, err
	}

	for _, id := range orderIDs {
		order := orderMap[id]
		order.Details = append(order.Details, details[id]...)
		if order.CustomerEmail != nil {
			byCustomer[*order.CustomerEmail] = append(byCustomer[*order.CustomerEmail], *order)
		}
	}

	return byCustomer, nil
}

// loadDetails eagerly loads the detail rows for a batch of orders, products
// included, so projecting to DTOs never triggers a secondary fetch.
func loadDetails(ctx context.Context, db querier, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderDetail, error) {
	ids := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = id.String()
	}

	rows, err := db.QueryContext(ctx, `
		SELECT d.order_id, d.id, d.quantity, d.product_id,
		       p.name, p.price, p.currency, p.rebate_quantity, p.rebate_percent, p.upsell_product_id, p.image_url
		FROM order_details d
		JOIN products p ON p.id = d.product_id
		WHERE d.order_id = ANY($1)
		ORDER BY d.id
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	details := make(map[uuid.UUID][]domain.OrderDetail)
	for rows.Next() {
		var orderID uuid.UUID
		var detail domain.OrderDetail
		product := &domain.Product{}

		if err := rows.Scan(&orderID, &detail.ID, &detail.Quantity, &detail.ProductID,
			&product.Name, &product.Price, &product.Currency, &product.RebateQuantity, &product.RebatePercent, &product.UpsellProductID, &product.ImageURL); err != nil {
			return nil, err
		}
		product.ID = detail.ProductID
		detail.Product = product

		details[orderID] = append(details[orderID], detail)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}
