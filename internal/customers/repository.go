package customers

import (
	"context"
	"database/sql"

	"github.com/mkrogh/shop-backend/internal/domain"
	"github.com/mkrogh/shop-backend/internal/orders"
)

// Repository is the uniform CRUD contract for customers, keyed by email.
// Get returns nil without an error when the email is unknown; writes report
// the affected row count and zero means the store rejected the write.
type Repository interface {
	GetAll(ctx context.Context) ([]domain.Customer, error)
	Get(ctx context.Context, email string) (*domain.Customer, error)
	Insert(ctx context.Context, customer domain.Customer) (int64, error)
	Update(ctx context.Context, customer domain.Customer) (int64, error)
	Delete(ctx context.Context, email string) (int64, error)
}

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) GetAll(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT email, password
		FROM customers
		ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var customers []domain.Customer
	var emails []string

	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.Email, &c.Password); err != nil {
			return nil, err
		}
		c.Orders = []domain.Order{}
		customers = append(customers, c)
		emails = append(emails, c.Email)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(customers) == 0 {
		return []domain.Customer{}, nil
	}

	owned, err := orders.LoadByCustomer(ctx, r.db, emails)
	if err != nil {
		return nil, err
	}

	for i := range customers {
		customers[i].Orders = append(customers[i].Orders, owned[customers[i].Email]...)
	}

	return customers, nil
}

func (r *CustomerRepository) Get(ctx context.Context, email string) (*domain.Customer, error) {
	c := &domain.Customer{}

	err := r.db.QueryRowContext(ctx, `
		SELECT email, password
		FROM customers
		WHERE email = $1
	`, email).Scan(&c.Email, &c.Password)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	owned, err := orders.LoadByCustomer(ctx, r.db, []string{email})
	if err != nil {
		return nil, err
	}
	c.Orders = append([]domain.Order{}, owned[email]...)

	return c, nil
}

func (r *CustomerRepository) Insert(ctx context.Context, customer domain.Customer) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO customers (email, password)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING
	`, customer.Email, customer.Password)
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

	ownedRows, err := r.insertOrdersTx(ctx, tx, customer)
	if err != nil {
		return 0, err
	}
	affected += ownedRows

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return affected, nil
}

// Update rewrites the customer row and replaces the owned order collection
// with whatever the caller supplied.
func (r *CustomerRepository) Update(ctx context.Context, customer domain.Customer) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE customers
		SET password = $2
		WHERE email = $1
	`, customer.Email, customer.Password)
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

	// Details cascade with their orders.
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE customer_email = $1`, customer.Email); err != nil {
		return 0, err
	}

	ownedRows, err := r.insertOrdersTx(ctx, tx, customer)
	if err != nil {
		return 0, err
	}
	affected += ownedRows

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return affected, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, email string) (int64, error) {
	// Owned orders and their details go via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM customers
		WHERE email = $1
	`, email)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *CustomerRepository) insertOrdersTx(ctx context.Context, tx *sql.Tx, customer domain.Customer) (int64, error) {
	var affected int64

	for _, order := range customer.Orders {
		order.CustomerEmail = &customer.Email
		n, err := orders.InsertTx(ctx, tx, order)
		if err != nil {
			return 0, err
		}
		affected += n
	}

	return affected, nil
}
