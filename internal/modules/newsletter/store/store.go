package store

import (
	"errors"
	"time"

	"github.com/maquinsa/site-core/internal/models"
)

var (
	// ErrNotFound is returned when no subscriber matches the lookup key.
	ErrNotFound = errors.New("subscriber not found")
	// ErrDuplicateEmail is returned by Create when the normalized email is
	// already taken. Callers resolve the race by falling back to a merge.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Filter selects a subset of subscribers by derived status.
type Filter string

const (
	FilterAll          Filter = "all"
	FilterActive       Filter = "active"
	FilterPending      Filter = "pending"
	FilterUnsubscribed Filter = "unsubscribed"
)

// ParseFilter maps a query value onto a Filter, defaulting to all.
func ParseFilter(raw string) (Filter, bool) {
	switch Filter(raw) {
	case FilterActive, FilterPending, FilterUnsubscribed:
		return Filter(raw), true
	case FilterAll, "":
		return FilterAll, true
	default:
		return FilterAll, false
	}
}

// Store is the durable subscriber store. Implementations must make Create a
// single atomic conditional insert and Confirm/Activate/Unsubscribe single
// conditional updates; the lifecycle invariants depend on that, not on
// application-level read-modify-write.
type Store interface {
	// Create inserts a new subscriber. ErrDuplicateEmail signals a losing
	// race on the email unique constraint.
	Create(sub *models.SubscriberModel) error

	GetByEmail(email string) (*models.SubscriberModel, error)
	GetByConfirmationToken(token string) (*models.SubscriberModel, error)
	GetByUnsubscribeToken(token string) (*models.SubscriberModel, error)
	GetByID(id string) (*models.SubscriberModel, error)

	// Update applies a partial field update to one subscriber.
	Update(id string, fields map[string]interface{}) error

	// Confirm consumes a confirmation token: in one conditional update it
	// activates the record, stamps confirmed_at (first confirmation only)
	// and clears the token. It reports false when the precondition (token
	// still unconsumed, record not unsubscribed) no longer holds.
	Confirm(token string, now time.Time) (bool, error)

	// Activate flips a not-yet-active, not-unsubscribed record to active,
	// stamping confirmed_at only if unset and clearing any pending token.
	Activate(id string, now time.Time) (bool, error)

	// Unsubscribe stamps unsubscribed_at for the record owning the token.
	// It reports false when the token is unknown or already unsubscribed.
	Unsubscribe(token string, now time.Time) (bool, error)

	// ListActive returns every subscriber with derived status Active.
	ListActive() ([]models.SubscriberModel, error)

	// All returns every subscriber.
	All() ([]models.SubscriberModel, error)

	// List returns one page of subscribers matching the filter, newest
	// first, plus the total count computed with the identical predicate.
	List(f Filter, offset, limit int) ([]models.SubscriberModel, int64, error)
}
