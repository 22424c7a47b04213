package rental

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/karim076/dvd-rental/internal/model"
	"github.com/karim076/dvd-rental/internal/queue"
	"github.com/karim076/dvd-rental/internal/repository"
)

// amountEpsilon is the half-cent tolerance used when comparing offered and
// recorded amounts. Amounts travel as float64 end to end; the only place
// two of them are ever compared is Pay.
const amountEpsilon = 0.005

// RentalDetail re-exports the repository's dashboard row shape.
type RentalDetail = repository.RentalDetail

// Store is the ledger surface the coordinator drives. It is implemented by
// *repository.Store; tests substitute a func-field fake. Methods with a Tx
// parameter must be called inside WithinTx.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error

	FilmByID(ctx context.Context, filmID int64) (*model.Film, error)
	CustomerByID(ctx context.Context, customerID int64) (*model.Customer, error)
	AvailableCount(ctx context.Context, filmID int64) (int, error)

	PickAvailableCopyTx(ctx context.Context, tx *sql.Tx, filmID int64) (int64, error)
	CreateRentalTx(ctx context.Context, tx *sql.Tx, rec *model.Rental) error
	RentalForUpdateTx(ctx context.Context, tx *sql.Tx, rentalID int64) (*model.Rental, error)
	MarkPaidTx(ctx context.Context, tx *sql.Tx, rentalID int64, paymentRef string) (bool, error)
	MarkCancelledTx(ctx context.Context, tx *sql.Tx, rentalID int64) (bool, error)
	MarkActiveTx(ctx context.Context, tx *sql.Tx, rentalID int64) (bool, error)
	MarkReturnedTx(ctx context.Context, tx *sql.Tx, rentalID int64, at time.Time) (bool, error)
	ExtendDueDateTx(ctx context.Context, tx *sql.Tx, rentalID int64, days int) (bool, error)

	RentalsByCustomer(ctx context.Context, customerID int64) ([]repository.RentalDetail, error)
	StatsByCustomer(ctx context.Context, customerID int64) (model.RentalStats, error)
	RepairZeroAmounts(ctx context.Context) (int64, error)
	NormalizeProcessing(ctx context.Context) (int64, error)
}

// PublishFunc delivers a lifecycle event to the message broker. Publication
// is best effort: a nil func disables it and failures are logged, never
// propagated into the business result.
type PublishFunc func(ctx context.Context, ev queue.RentalEvent) error

// Created is the result of a successful rental creation.
type Created struct {
	RentalID int64
	DueDate  time.Time
	Amount   float64
}

// Dashboard is the customer self-service view: all rentals plus aggregates.
type Dashboard struct {
	Rentals []repository.RentalDetail
	Stats   model.RentalStats
}

// Service is the rental action coordinator. Every mutating operation is one
// transactional unit: it re-reads the current row under lock, consults the
// state machine, then applies a status-guarded update. A guarded update
// that affects zero rows lost a race and surfaces as ErrInvalidTransition.
type Service interface {
	// Create opens a pending rental for customerID on a free copy of
	// filmID, pricing it from the film's current rate.
	Create(ctx context.Context, customerID, filmID int64) (*Created, error)
	// Pay confirms payment of a pending rental. The offered amount must
	// cover the recorded amount; overpayment is accepted, the recorded
	// amount is never rewritten.
	Pay(ctx context.Context, customerID, rentalID int64, amount float64) error
	// Cancel abandons a pending rental before payment, releasing the copy.
	Cancel(ctx context.Context, customerID, rentalID int64) error
	// Return closes out a rented rental and stamps the return date.
	Return(ctx context.Context, customerID, rentalID int64) error
	// Extend pushes the due date of a rented rental forward.
	Extend(ctx context.Context, customerID, rentalID int64) error
	// Activate records the physical hand-out of the disc (staff only).
	Activate(ctx context.Context, rentalID int64) error
	// RentalsData assembles the customer dashboard.
	RentalsData(ctx context.Context, customerID int64) (*Dashboard, error)
	// AvailableCount reports rentable copies of a film (staff lookup).
	AvailableCount(ctx context.Context, filmID int64) (int, error)
	// RunRecovery executes the invariant-repair passes, see recovery.go.
	RunRecovery(ctx context.Context) (RecoveryReport, error)
}

type service struct {
	store      Store
	publish    PublishFunc
	extendDays int
}

// New constructs the coordinator. extendDays is how far Extend pushes the
// due date; values below one day are clamped to one.
func New(store Store, publish PublishFunc, extendDays int) Service {
	if extendDays < 1 {
		extendDays = 1
	}
	return &service{store: store, publish: publish, extendDays: extendDays}
}

func (s *service) Create(ctx context.Context, customerID, filmID int64) (*Created, error) {
	cust, err := s.store.CustomerByID(ctx, customerID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if !cust.Active {
		// Inactive customers are soft-deleted reference data.
		return nil, ErrNotFound
	}
	film, err := s.store.FilmByID(ctx, filmID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	// Cheap pre-check so an out-of-stock title fails without opening a
	// transaction. The authoritative check is the locked copy pick below.
	count, err := s.store.AvailableCount(ctx, filmID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoAvailableCopy
	}

	now := time.Now().UTC()
	rec := &model.Rental{
		CustomerID: customerID,
		RentalDate: now,
		DueDate:    now.AddDate(0, 0, film.RentalDuration),
		Amount:     film.RentalRate,
		Status:     model.StatusPending,
	}
	err = s.store.WithinTx(ctx, func(tx *sql.Tx) error {
		inventoryID, err := s.store.PickAvailableCopyTx(ctx, tx, filmID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoAvailableCopy
			}
			return err
		}
		rec.InventoryID = inventoryID
		return s.store.CreateRentalTx(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, queue.EventRentalCreated, rec)
	return &Created{RentalID: rec.RentalID, DueDate: rec.DueDate, Amount: rec.Amount}, nil
}

func (s *service) Pay(ctx context.Context, customerID, rentalID int64, amount float64) error {
	var paid *model.Rental
	err := s.store.WithinTx(ctx, func(tx *sql.Tx) error {
		rec, err := s.lockOwned(ctx, tx, customerID, rentalID)
		if err != nil {
			return err
		}
		next, err := Next(rec.Status, EventPay)
		if err != nil {
			return err
		}
		if amount+amountEpsilon < rec.Amount {
			return ErrPaymentMismatch
		}
		ok, err := s.store.MarkPaidTx(ctx, tx, rentalID, uuid.NewString())
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		rec.Status = next
		paid = rec
		return nil
	})
	if err != nil {
		return err
	}
	s.emit(ctx, queue.EventRentalPaid, paid)
	return nil
}

func (s *service) Cancel(ctx context.Context, customerID, rentalID int64) error {
	var cancelled *model.Rental
	err := s.store.WithinTx(ctx, func(tx *sql.Tx) error {
		rec, err := s.lockOwned(ctx, tx, customerID, rentalID)
		if err != nil {
			return err
		}
		next, err := Next(rec.Status, EventCancel)
		if err != nil {
			return err
		}
		ok, err := s.store.MarkCancelledTx(ctx, tx, rentalID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		rec.Status = next
		cancelled = rec
		return nil
	})
	if err != nil {
		return err
	}
	s.emit(ctx, queue.EventRentalCancelled, cancelled)
	return nil
}

func (s *service) Return(ctx context.Context, customerID, rentalID int64) error {
	var returned *model.Rental
	err := s.store.WithinTx(ctx, func(tx *sql.Tx) error {
		rec, err := s.lockOwned(ctx, tx, customerID, rentalID)
		if err != nil {
			return err
		}
		next, err := Next(rec.Status, EventReturn)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		ok, err := s.store.MarkReturnedTx(ctx, tx, rentalID, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		rec.Status = next
		rec.ReturnDate = &now
		returned = rec
		return nil
	})
	if err != nil {
		return err
	}
	s.emit(ctx, queue.EventRentalReturned, returned)
	return nil
}

func (s *service) Extend(ctx context.Context, customerID, rentalID int64) error {
	return s.store.WithinTx(ctx, func(tx *sql.Tx) error {
		rec, err := s.lockOwned(ctx, tx, customerID, rentalID)
		if err != nil {
			return err
		}
		// Extend keeps the rental in rented; only the due date moves.
		if _, err := Next(rec.Status, EventExtend); err != nil {
			return err
		}
		ok, err := s.store.ExtendDueDateTx(ctx, tx, rentalID, s.extendDays)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		return nil
	})
}

func (s *service) Activate(ctx context.Context, rentalID int64) error {
	var active *model.Rental
	err := s.store.WithinTx(ctx, func(tx *sql.Tx) error {
		rec, err := s.store.RentalForUpdateTx(ctx, tx, rentalID)
		if err != nil {
			return mapNoRows(err)
		}
		next, err := Next(rec.Status, EventActivate)
		if err != nil {
			return err
		}
		ok, err := s.store.MarkActiveTx(ctx, tx, rentalID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		rec.Status = next
		active = rec
		return nil
	})
	if err != nil {
		return err
	}
	s.emit(ctx, queue.EventRentalActivated, active)
	return nil
}

func (s *service) RentalsData(ctx context.Context, customerID int64) (*Dashboard, error) {
	rentals, err := s.store.RentalsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.StatsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Rentals: rentals, Stats: stats}, nil
}

func (s *service) AvailableCount(ctx context.Context, filmID int64) (int, error) {
	if _, err := s.store.FilmByID(ctx, filmID); err != nil {
		return 0, mapNoRows(err)
	}
	return s.store.AvailableCount(ctx, filmID)
}

// lockOwned loads the rental under row lock and enforces ownership. A
// rental owned by someone else reads as not found so the customer surface
// does not reveal foreign rental IDs.
func (s *service) lockOwned(ctx context.Context, tx *sql.Tx, customerID, rentalID int64) (*model.Rental, error) {
	rec, err := s.store.RentalForUpdateTx(ctx, tx, rentalID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if rec.CustomerID != customerID {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *service) emit(ctx context.Context, evType string, rec *model.Rental) {
	if s.publish == nil || rec == nil {
		return
	}
	ev := queue.RentalEvent{
		Type:       evType,
		RentalID:   rec.RentalID,
		CustomerID: rec.CustomerID,
		Amount:     rec.Amount,
		Status:     string(rec.Status),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("rental: publish %s for rental %d failed: %v", evType, rec.RentalID, err)
	}
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
