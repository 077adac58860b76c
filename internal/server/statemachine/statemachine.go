// Package statemachine holds the connection request lifecycle rules.
//
//	(none)      --connect(interested|ignored)--> interested | ignored   actor: sender
//	interested  --review(accepted|rejected)----> accepted | rejected    actor: recipient
//
// ignored, accepted and rejected are terminal.
package statemachine

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
)

// ValidateInitial checks the status a sender may create a request with.
func ValidateInitial(status models.ConnectionStatus) error {
	switch status {
	case models.StatusInterested, models.StatusIgnored:
		return nil
	}
	return fmt.Errorf("%w: cannot connect with status %q", common.ErrInvalidTransition, status)
}

// ValidateDecision checks the status a recipient may review a request into.
func ValidateDecision(decision models.ConnectionStatus) error {
	switch decision {
	case models.StatusAccepted, models.StatusRejected:
		return nil
	}
	return fmt.Errorf("%w: cannot review into %q", common.ErrInvalidTransition, decision)
}

// CanReview reports whether a request in state from accepts a review.
func CanReview(from models.ConnectionStatus) bool {
	return from == models.StatusInterested
}

// Review applies decision to r on behalf of actor. r is left untouched on
// error. Anyone but the recipient gets ErrForbidden whatever the decision
// or the current state; the recipient gets ErrInvalidTransition for a bad
// decision or a closed request. The stores report their conditional-write
// failures in the same order, after ErrorNotFound.
func Review(r *models.ConnectionRequest, actor string, decision models.ConnectionStatus, now time.Time) error {
	if r.ToUserID != actor {
		return common.ErrForbidden
	}
	if err := ValidateDecision(decision); err != nil {
		return err
	}
	if !CanReview(r.Status) {
		return fmt.Errorf("%w: request is %s", common.ErrInvalidTransition, r.Status)
	}
	r.Status = decision
	r.UpdatedAt = now
	return nil
}
