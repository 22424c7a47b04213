package repository

import (
	"context"
	"database/sql"

	"github.com/karim076/dvd-rental/internal/model"
)

// InventoryRepo answers availability questions about physical copies.
// Availability is never stored: a copy is free exactly when no rental in an
// occupying status points at it, which removes a whole class of
// counter-drift bugs.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo returns a new InventoryRepo bound to the given database.
func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// occupiedIn builds the "status IN (…)" placeholder list and arguments for
// the occupying statuses. Kept in one place so the availability count and
// the copy pick can never disagree on what occupies a copy.
func occupiedIn() (string, []interface{}) {
	statuses := model.OccupiedStatuses()
	placeholders := "?"
	args := []interface{}{string(statuses[0])}
	for _, s := range statuses[1:] {
		placeholders += ", ?"
		args = append(args, string(s))
	}
	return placeholders, args
}

// AvailableCount reports how many copies of a film are currently rentable.
// Pure read, no side effects. A copy counts as available when it has no
// attached rental in pending, paid or rented.
func (r *InventoryRepo) AvailableCount(ctx context.Context, filmID int64) (int, error) {
	in, args := occupiedIn()
	q := `SELECT COUNT(*)
	      FROM inventory i
	      LEFT JOIN rental r ON r.inventory_id = i.inventory_id AND r.status IN (` + in + `)
	      WHERE i.film_id = ? AND r.rental_id IS NULL`
	var count int
	err := r.db.QueryRowContext(ctx, q, append(args, filmID)...).Scan(&count)
	return count, err
}

// PickAvailableCopyTx selects one free copy of the film and locks it for
// the remainder of the transaction. SKIP LOCKED lets two staff members
// renting the same title at the same moment each grab a different copy
// instead of one of them blocking. Returns sql.ErrNoRows when every copy
// is out.
func (r *InventoryRepo) PickAvailableCopyTx(ctx context.Context, tx *sql.Tx, filmID int64) (int64, error) {
	in, args := occupiedIn()
	q := `SELECT i.inventory_id
	      FROM inventory i
	      WHERE i.film_id = ?
	        AND NOT EXISTS (
	              SELECT 1 FROM rental r
	              WHERE r.inventory_id = i.inventory_id AND r.status IN (` + in + `)
	        )
	      ORDER BY i.inventory_id
	      LIMIT 1
	      FOR UPDATE SKIP LOCKED`
	var inventoryID int64
	err := tx.QueryRowContext(ctx, q, append([]interface{}{filmID}, args...)...).Scan(&inventoryID)
	return inventoryID, err
}
