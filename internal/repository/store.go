package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/karim076/dvd-rental/internal/model"
)

// Store bundles the per-table repositories behind one handle and owns the
// transaction lifecycle. The rental engine talks to a Store, not to the
// individual repos, so a single fake can stand in for all of them in tests.
type Store struct {
	db        *sql.DB
	Rentals   *RentalRepo
	Inventory *InventoryRepo
	Films     *FilmRepo
	Customers *CustomerRepo
}

// NewStore wires the repositories onto a shared database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		Rentals:   NewRentalRepo(db),
		Inventory: NewInventoryRepo(db),
		Films:     NewFilmRepo(db),
		Customers: NewCustomerRepo(db),
	}
}

// DB exposes the underlying handle for callers that manage their own
// queries (health checks, migrations).
func (s *Store) DB() *sql.DB { return s.db }

// WithinTx runs fn inside a transaction. The transaction is committed when
// fn returns nil and rolled back otherwise; a failed commit is returned to
// the caller. This is the single transaction path for every coordinator
// operation.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// The forwarding methods below let *Store satisfy the rental engine's store
// interface without the engine importing four repo types.

func (s *Store) FilmByID(ctx context.Context, filmID int64) (*model.Film, error) {
	return s.Films.GetByID(ctx, filmID)
}

func (s *Store) CustomerByID(ctx context.Context, customerID int64) (*model.Customer, error) {
	return s.Customers.GetByID(ctx, customerID)
}

func (s *Store) AvailableCount(ctx context.Context, filmID int64) (int, error) {
	return s.Inventory.AvailableCount(ctx, filmID)
}

func (s *Store) PickAvailableCopyTx(ctx context.Context, tx *sql.Tx, filmID int64) (int64, error) {
	return s.Inventory.PickAvailableCopyTx(ctx, tx, filmID)
}

func (s *Store) CreateRentalTx(ctx context.Context, tx *sql.Tx, rec *model.Rental) error {
	return s.Rentals.CreateTx(ctx, tx, rec)
}

func (s *Store) RentalForUpdateTx(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error) {
	return s.Rentals.GetForUpdateTx(ctx, tx, rentalID)
}

func (s *Store) MarkPaidTx(ctx context.Context, tx *sql.Tx, rentalID int64, paymentRef string) (bool, error) {
	return s.Rentals.MarkPaidTx(ctx, tx, rentalID, paymentRef)
}

func (s *Store) MarkCancelledTx(ctx context.Context, tx *sql.Tx, rentalID int64) (bool, error) {
	return s.Rentals.MarkCancelledTx(ctx, tx, rentalID)
}

func (s *Store) MarkActiveTx(ctx context.Context, tx *sql.Tx, rentalID int64) (bool, error) {
	return s.Rentals.MarkActiveTx(ctx, tx, rentalID)
}

func (s *Store) MarkReturnedTx(ctx context.Context, tx *sql.Tx, rentalID int64, at time.Time) (bool, error) {
	return s.Rentals.MarkReturnedTx(ctx, tx, rentalID, at)
}

func (s *Store) ExtendDueDateTx(ctx context.Context, tx *sql.Tx, rentalID int64, days int) (bool, error) {
	return s.Rentals.ExtendDueDateTx(ctx, tx, rentalID, days)
}

func (s *Store) RentalsByCustomer(ctx context.Context, customerID int64) ([]RentalDetail, error) {
	return s.Rentals.ListByCustomer(ctx, customerID)
}

func (s *Store) StatsByCustomer(ctx context.Context, customerID int64) (model.RentalStats, error) {
	return s.Rentals.StatsByCustomer(ctx, customerID)
}

func (s *Store) RepairZeroAmounts(ctx context.Context) (int64, error) {
	return s.Rentals.RepairZeroAmounts(ctx)
}

func (s *Store) NormalizeProcessing(ctx context.Context) (int64, error) {
	return s.Rentals.NormalizeProcessing(ctx)
}
