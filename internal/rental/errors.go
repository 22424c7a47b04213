// Package rental implements the rental lifecycle engine: the pricing
// resolver, the state machine that owns rental statuses, and the action
// coordinator exposing the mutating operations as transactional units.
package rental

import "errors"

// ErrNotFound is returned for an unknown rental, film or customer id. It is
// also returned when a customer touches a rental they do not own, so the
// surface does not reveal whether the rental exists.
var ErrNotFound = errors.New("not found")

// ErrNoAvailableCopy is returned when rental creation finds every copy of
// the requested film attached to an active rental.
var ErrNoAvailableCopy = errors.New("no available copy")

// ErrInvalidTransition is returned when a requested transition violates a
// state machine guard, including the lost-race case where the guarded
// update affects zero rows. State is left unchanged.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrPaymentMismatch is returned when the offered payment does not cover
// the rental's recorded amount.
var ErrPaymentMismatch = errors.New("payment mismatch")
