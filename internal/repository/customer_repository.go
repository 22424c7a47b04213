package repository

import (
	"context"
	"database/sql"

	"github.com/karim076/dvd-rental/internal/model"
)

// CustomerRepo reads customer reference data for ownership checks and
// staff lookups. The rental engine never mutates customers.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// GetByID loads a customer. Returns sql.ErrNoRows when the customer does
// not exist.
func (r *CustomerRepo) GetByID(ctx context.Context, customerID int64) (*model.Customer, error) {
	const q = `SELECT customer_id, first_name, last_name, email, active, create_date
	           FROM customer WHERE customer_id = ?`
	var c model.Customer
	err := r.db.QueryRowContext(ctx, q, customerID).Scan(
		&c.CustomerID, &c.FirstName, &c.LastName, &c.Email, &c.Active, &c.CreateDate,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
