package rental

import "github.com/karim076/dvd-rental/internal/model"

// Event names a business action requested against a rental. Events are the
// only way a status ever changes; there is no direct status setter.
type Event string

const (
	EventPay      Event = "pay"      // pending -> paid
	EventCancel   Event = "cancel"   // pending -> cancelled
	EventActivate Event = "activate" // pending|paid -> rented (physical hand-out)
	EventReturn   Event = "return"   // rented -> returned
	EventExtend   Event = "extend"   // rented -> rented (due date only)
)

// Next returns the status a rental moves to when ev is applied in status
// from. It returns ErrInvalidTransition when the guard fails; the caller
// must not write anything in that case. The switch is exhaustive over the
// event set so a new event cannot be added without deciding its guards.
func Next(from model.Status, ev Event) (model.Status, error) {
	switch ev {
	case EventPay:
		if from == model.StatusPending {
			return model.StatusPaid, nil
		}
	case EventCancel:
		if from == model.StatusPending {
			return model.StatusCancelled, nil
		}
	case EventActivate:
		if from == model.StatusPending || from == model.StatusPaid {
			return model.StatusRented, nil
		}
	case EventReturn:
		if from == model.StatusRented {
			return model.StatusReturned, nil
		}
	case EventExtend:
		if from == model.StatusRented {
			return model.StatusRented, nil
		}
	}
	return "", ErrInvalidTransition
}
