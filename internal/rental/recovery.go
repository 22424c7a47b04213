package rental

import (
	"context"
	"log"
)

// RecoveryReport counts the rows touched by one recovery run.
type RecoveryReport struct {
	AmountsRepaired    int64 // rentals whose zero/NULL amount was backfilled
	StatusesNormalized int64 // processing rows rewritten to pending
}

// RunRecovery executes the two invariant-repair passes against the ledger:
// amounts left at zero or NULL are backfilled from the film rate, and
// rentals resting in the transient processing status are normalized back to
// pending. Both passes are idempotent; a second run over a healthy ledger
// affects zero rows. Runs at server startup and on demand from rentalctl.
func (s *service) RunRecovery(ctx context.Context) (RecoveryReport, error) {
	var report RecoveryReport
	amounts, err := s.store.RepairZeroAmounts(ctx)
	if err != nil {
		return report, err
	}
	report.AmountsRepaired = amounts

	statuses, err := s.store.NormalizeProcessing(ctx)
	if err != nil {
		return report, err
	}
	report.StatusesNormalized = statuses

	if amounts > 0 || statuses > 0 {
		log.Printf("recovery: repaired %d zero amounts, normalized %d processing statuses", amounts, statuses)
	}
	return report, nil
}
