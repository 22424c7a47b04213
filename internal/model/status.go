package model

// Status enumerates the rental lifecycle states. The set is closed:
// consumers must branch through the helper methods below so that a new
// status cannot be introduced without every switch being revisited.
//
// Values:
//  pending   created, awaiting payment.
//  paid      payment confirmed, disc not yet handed over.
//  rented    disc in the customer's possession.
//  returned  terminal; disc back in inventory.
//  cancelled terminal; abandoned before payment, copy released.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusRented    Status = "rented"
	StatusReturned  Status = "returned"
	StatusCancelled Status = "cancelled"
)

// StatusProcessing is a legacy transient value that must never rest in the
// ledger. It is not part of the valid set; rows carrying it are normalized
// back to pending by the recovery pass before being exposed to callers.
const StatusProcessing Status = "processing"

// Valid reports whether s is one of the closed set of durable statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusRented, StatusReturned, StatusCancelled:
		return true
	case StatusProcessing:
		return false
	}
	return false
}

// Terminal reports whether no further business transition is permitted.
func (s Status) Terminal() bool {
	switch s {
	case StatusReturned, StatusCancelled:
		return true
	case StatusPending, StatusPaid, StatusRented, StatusProcessing:
		return false
	}
	return false
}

// Occupies reports whether a rental in this status keeps its inventory copy
// off the shelf. A copy is occupied until the rental reaches a terminal
// state; counting paid rentals as free would double-book the copy.
func (s Status) Occupies() bool {
	switch s {
	case StatusPending, StatusPaid, StatusRented:
		return true
	case StatusReturned, StatusCancelled, StatusProcessing:
		return false
	}
	return false
}

// OccupiedStatuses lists the statuses that hold an inventory copy, in the
// order they appear in the lifecycle. Used to build SQL IN clauses.
func OccupiedStatuses() []Status {
	return []Status{StatusPending, StatusPaid, StatusRented}
}
