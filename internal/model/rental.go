package model

import "time"

// Rental is the central entity of the ledger: one row per handed-out copy.
// A rental is never deleted; cancellation and return are terminal status
// transitions, not row removals.
//
// Fields:
//  RentalID    - primary key identifier, immutable.
//  InventoryID - physical copy attached to this rental.
//  CustomerID  - the renter.
//  RentalDate  - creation timestamp, immutable.
//  DueDate     - end of the agreed rental window; pushed forward by extend.
//  ReturnDate  - actual return timestamp; nil until the disc is back.
//  Amount      - price fixed at creation from the film's rental rate.
//  Status      - lifecycle state, see Status.
//  PaymentRef  - external payment reference recorded on pay.
type Rental struct {
	RentalID    int64      // rental.rental_id
	InventoryID int64      // rental.inventory_id
	CustomerID  int64      // rental.customer_id
	RentalDate  time.Time  // rental.rental_date
	DueDate     time.Time  // rental.due_date
	ReturnDate  *time.Time // rental.return_date (nullable)
	Amount      float64    // rental.amount
	Status      Status     // rental.status
	PaymentRef  *string    // rental.payment_ref (nullable)
}

// RentalStats aggregates a customer's ledger for the dashboard.
//
// PaidAmount sums amounts of rentals currently in paid; TotalSpent sums
// everything the customer has committed money to (paid, rented, returned).
type RentalStats struct {
	Pending    int     `json:"pending"`
	Paid       int     `json:"paid"`
	Rented     int     `json:"rented"`
	Returned   int     `json:"returned"`
	PaidAmount float64 `json:"paid_amount"`
	TotalSpent float64 `json:"total_spent"`
}
