// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Error taxonomy. Handlers map these categories to HTTP statuses with
// errors.Is; nothing else crosses the service boundary.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

var (
	ErrItemNotFound          = fmt.Errorf("item %w", ErrNotFound)
	ErrUserNotFound          = fmt.Errorf("user %w", ErrNotFound)
	ErrConversationNotFound  = fmt.Errorf("conversation %w", ErrNotFound)
	ErrPickupRequestNotFound = fmt.Errorf("pickup request %w", ErrNotFound)
	ErrOrderNotFound         = fmt.Errorf("order %w", ErrNotFound)
	ErrAgreementNotFound     = fmt.Errorf("store agreement %w", ErrNotFound)
	ErrNotificationNotFound  = fmt.Errorf("notification %w", ErrNotFound)

	// Stock ledger: the decrement predicate failed, distinct from a missing item.
	ErrOutOfStock = fmt.Errorf("insufficient stock: %w", ErrConflict)

	// Consent handshake: the actor has consented before.
	ErrAlreadyAgreed = fmt.Errorf("already agreed: %w", ErrConflict)

	// Pickup request: transition not allowed from the current status.
	ErrInvalidTransition = fmt.Errorf("invalid state transition: %w", ErrConflict)

	// One rating per (rater, ratee, item).
	ErrDuplicateRating = fmt.Errorf("already rated: %w", ErrConflict)
)

// isDuplicateKey reports whether err is a unique-constraint violation.
// TranslateError covers postgres and the sqlite test driver; the string
// checks are a fallback for drivers without translation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
