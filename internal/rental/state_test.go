package rental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karim076/dvd-rental/internal/model"
)

// The full status x event grid. Anything not listed as allowed must fail
// with ErrInvalidTransition and return no target status.
func TestNext_Grid(t *testing.T) {
	allowed := map[model.Status]map[Event]model.Status{
		model.StatusPending: {
			EventPay:      model.StatusPaid,
			EventCancel:   model.StatusCancelled,
			EventActivate: model.StatusRented,
		},
		model.StatusPaid: {
			EventActivate: model.StatusRented,
		},
		model.StatusRented: {
			EventReturn: model.StatusReturned,
			EventExtend: model.StatusRented,
		},
	}

	statuses := []model.Status{
		model.StatusPending, model.StatusPaid, model.StatusRented,
		model.StatusReturned, model.StatusCancelled, model.StatusProcessing,
	}
	events := []Event{EventPay, EventCancel, EventActivate, EventReturn, EventExtend}

	for _, from := range statuses {
		for _, ev := range events {
			to, err := Next(from, ev)
			if want, ok := allowed[from][ev]; ok {
				require.NoErrorf(t, err, "%s + %s", from, ev)
				assert.Equalf(t, want, to, "%s + %s", from, ev)
			} else {
				assert.ErrorIsf(t, err, ErrInvalidTransition, "%s + %s", from, ev)
			}
		}
	}
}

func TestNext_TerminalStatesRejectEverything(t *testing.T) {
	for _, from := range []model.Status{model.StatusReturned, model.StatusCancelled} {
		for _, ev := range []Event{EventPay, EventCancel, EventActivate, EventReturn, EventExtend} {
			_, err := Next(from, ev)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
}
