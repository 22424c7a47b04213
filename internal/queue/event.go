// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried in RentalEvent.Type, one per lifecycle transition.
const (
	EventRentalCreated   = "rental.created"
	EventRentalPaid      = "rental.paid"
	EventRentalActivated = "rental.activated"
	EventRentalReturned  = "rental.returned"
	EventRentalCancelled = "rental.cancelled"
)

// RentalEvent is published after a rental transition commits. It carries
// enough information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database.
type RentalEvent struct {
	Type       string  `json:"type"`
	RentalID   int64   `json:"rental_id"`
	CustomerID int64   `json:"customer_id"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
	OccurredAt string  `json:"occurred_at"`
}
