package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/karim076/dvd-rental/internal/model"
)

// RentalRepo provides data access to the rental ledger. Every mutation is a
// single guarded UPDATE: the WHERE clause repeats the status the transition
// requires, so a concurrent writer that got there first leaves zero rows
// affected instead of silently double-applying. All timestamps are stored
// in UTC.
type RentalRepo struct {
	db *sql.DB
}

// NewRentalRepo returns a new RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

// RentalDetail is one dashboard row: a rental joined with its film. It is
// returned by ListByCustomer for display to customers. Timestamps are
// RFC3339 strings in UTC; ReturnDate is omitted until the disc is back.
type RentalDetail struct {
	RentalID   int64        `json:"rental_id"`
	FilmID     int64        `json:"film_id"`
	FilmTitle  string       `json:"film_title"`
	RentalDate string       `json:"rental_date"`
	DueDate    string       `json:"due_date"`
	ReturnDate *string      `json:"return_date,omitempty"`
	Amount     float64      `json:"amount"`
	Status     model.Status `json:"status"`
}

// CreateTx inserts a new rental within the scope of an existing transaction
// and populates the generated ID on the provided record. The caller must
// commit or roll back the transaction. Status and Amount must already be
// set (pending, film rate) before calling.
func (r *RentalRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *model.Rental) error {
	const q = `INSERT INTO rental (inventory_id, customer_id, rental_date, due_date, amount, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		rec.InventoryID, rec.CustomerID,
		rec.RentalDate.UTC().Format("2006-01-02 15:04:05"),
		rec.DueDate.UTC().Format("2006-01-02 15:04:05"),
		rec.Amount, string(rec.Status),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.RentalID = id
	return nil
}

// GetForUpdateTx loads a rental row under an exclusive row lock so that the
// caller can apply a transition without a concurrent request sliding in
// between the read and the write. Returns sql.ErrNoRows when the rental
// does not exist.
func (r *RentalRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error) {
	const q = `SELECT rental_id, inventory_id, customer_id, rental_date, due_date, return_date, amount, status, payment_ref
	           FROM rental WHERE rental_id = ? FOR UPDATE`
	return scanRental(tx.QueryRowContext(ctx, q, rentalID))
}

// GetByID loads a rental without locking. Returns sql.ErrNoRows when the
// rental does not exist.
func (r *RentalRepo) GetByID(ctx context.Context, rentalID int64) (*model.Rental, error) {
	const q = `SELECT rental_id, inventory_id, customer_id, rental_date, due_date, return_date, amount, status, payment_ref
	           FROM rental WHERE rental_id = ?`
	return scanRental(r.db.QueryRowContext(ctx, q, rentalID))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*model.Rental, error) {
	var rec model.Rental
	var status string
	var returnDate sql.NullTime
	var paymentRef sql.NullString
	err := row.Scan(
		&rec.RentalID, &rec.InventoryID, &rec.CustomerID,
		&rec.RentalDate, &rec.DueDate, &returnDate,
		&rec.Amount, &status, &paymentRef,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = model.Status(status)
	if returnDate.Valid {
		t := returnDate.Time.UTC()
		rec.ReturnDate = &t
	}
	if paymentRef.Valid {
		ref := paymentRef.String
		rec.PaymentRef = &ref
	}
	return &rec, nil
}

// MarkPaidTx transitions a pending rental to paid and records the payment
// reference. The status guard in the WHERE clause serializes concurrent
// pay attempts: only one of them sees a row affected.
func (r *RentalRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, rentalID int64, paymentRef string) (bool, error) {
	const q = `UPDATE rental SET status = ?, payment_ref = ? WHERE rental_id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, string(model.StatusPaid), paymentRef, rentalID, string(model.StatusPending))
	return affected(res, err)
}

// MarkCancelledTx transitions a pending rental to cancelled. The copy is
// released implicitly: availability is derived from status, so no inventory
// write is needed.
func (r *RentalRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, rentalID int64) (bool, error) {
	const q = `UPDATE rental SET status = ? WHERE rental_id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, string(model.StatusCancelled), rentalID, string(model.StatusPending))
	return affected(res, err)
}

// MarkActiveTx records the physical hand-out of the disc, moving a pending
// or paid rental to rented.
func (r *RentalRepo) MarkActiveTx(ctx context.Context, tx *sql.Tx, rentalID int64) (bool, error) {
	const q = `UPDATE rental SET status = ? WHERE rental_id = ? AND status IN (?, ?)`
	res, err := tx.ExecContext(ctx, q, string(model.StatusRented), rentalID,
		string(model.StatusPending), string(model.StatusPaid))
	return affected(res, err)
}

// MarkReturnedTx closes out a rented rental: status becomes returned and
// return_date is set to the supplied timestamp. return_date is written
// nowhere else, which keeps the return_date <=> returned invariant exact.
func (r *RentalRepo) MarkReturnedTx(ctx context.Context, tx *sql.Tx, rentalID int64, at time.Time) (bool, error) {
	const q = `UPDATE rental SET status = ?, return_date = ? WHERE rental_id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, string(model.StatusReturned),
		at.UTC().Format("2006-01-02 15:04:05"), rentalID, string(model.StatusRented))
	return affected(res, err)
}

// ExtendDueDateTx pushes the due date of a rented rental forward by the
// given number of days. Amount and status are left untouched.
func (r *RentalRepo) ExtendDueDateTx(ctx context.Context, tx *sql.Tx, rentalID int64, days int) (bool, error) {
	const q = `UPDATE rental SET due_date = DATE_ADD(due_date, INTERVAL ? DAY) WHERE rental_id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, days, rentalID, string(model.StatusRented))
	return affected(res, err)
}

func affected(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByCustomer returns all rentals for the given customer joined with
// film information, newest first. Legacy rows resting in the transient
// processing status are exposed as pending; the durable rewrite is done by
// NormalizeProcessing, this is only read-time correction.
func (r *RentalRepo) ListByCustomer(ctx context.Context, customerID int64) ([]RentalDetail, error) {
	const q = `SELECT r.rental_id, f.film_id, f.title,
	                  r.rental_date, r.due_date, r.return_date, r.amount,
	                  CASE WHEN r.status = 'processing' AND r.return_date IS NULL THEN 'pending' ELSE r.status END
	           FROM rental r
	           JOIN inventory i ON i.inventory_id = r.inventory_id
	           JOIN film f ON f.film_id = i.film_id
	           WHERE r.customer_id = ?
	           ORDER BY r.rental_date DESC, r.rental_id DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]RentalDetail, 0)
	for rows.Next() {
		var d RentalDetail
		var rentalDate, dueDate time.Time
		var returnDate sql.NullTime
		var status string
		if err := rows.Scan(&d.RentalID, &d.FilmID, &d.FilmTitle,
			&rentalDate, &dueDate, &returnDate, &d.Amount, &status); err != nil {
			return nil, err
		}
		d.RentalDate = rentalDate.UTC().Format(time.RFC3339)
		d.DueDate = dueDate.UTC().Format(time.RFC3339)
		if returnDate.Valid {
			iso := returnDate.Time.UTC().Format(time.RFC3339)
			d.ReturnDate = &iso
		}
		d.Status = model.Status(status)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// StatsByCustomer aggregates the customer's ledger in one pass: per-status
// counts, the amount currently sitting in paid, and the total the customer
// has spent across paid, rented and returned rentals.
func (r *RentalRepo) StatsByCustomer(ctx context.Context, customerID int64) (model.RentalStats, error) {
	const q = `SELECT
	             COALESCE(SUM(status = 'pending'), 0),
	             COALESCE(SUM(status = 'paid'), 0),
	             COALESCE(SUM(status = 'rented'), 0),
	             COALESCE(SUM(status = 'returned'), 0),
	             COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0),
	             COALESCE(SUM(CASE WHEN status IN ('paid','rented','returned') THEN amount ELSE 0 END), 0)
	           FROM rental WHERE customer_id = ?`
	var stats model.RentalStats
	err := r.db.QueryRowContext(ctx, q, customerID).Scan(
		&stats.Pending, &stats.Paid, &stats.Rented, &stats.Returned,
		&stats.PaidAmount, &stats.TotalSpent,
	)
	return stats, err
}

// RepairZeroAmounts backfills the amount of every rental left at zero or
// NULL from the rental rate of the joined film. The predicate excludes rows
// that already carry a positive amount, so running the repair twice affects
// nothing the second time. Returns the number of rows corrected.
func (r *RentalRepo) RepairZeroAmounts(ctx context.Context) (int64, error) {
	const q = `UPDATE rental r
	           JOIN inventory i ON i.inventory_id = r.inventory_id
	           JOIN film f ON f.film_id = i.film_id
	           SET r.amount = f.rental_rate
	           WHERE r.amount = 0 OR r.amount IS NULL`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// NormalizeProcessing rewrites rentals stuck in the transient processing
// status back to pending. Only rows without a return date qualify; a
// processing row that somehow carries a return date needs human eyes, not
// an automatic rewrite. Returns the number of rows normalized.
func (r *RentalRepo) NormalizeProcessing(ctx context.Context) (int64, error) {
	const q = `UPDATE rental SET status = ? WHERE status = ? AND return_date IS NULL`
	res, err := r.db.ExecContext(ctx, q, string(model.StatusPending), string(model.StatusProcessing))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
