package confirm

import (
	"errors"
	"fmt"
	"time"

	"github.com/maquinsa/site-core/internal/models"
	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
)

// Outcome classifies a confirmation attempt. AlreadyConfirmed counts as
// success; re-clicking an emailed link must never show an error page.
type Outcome int

const (
	ConfirmedNow Outcome = iota
	AlreadyConfirmed
	TokenNotFound
	PreviouslyUnsubscribed
)

// UnsubOutcome classifies an unsubscribe attempt.
type UnsubOutcome int

const (
	Unsubscribed UnsubOutcome = iota
	AlreadyUnsubscribed
	UnsubTokenNotFound
)

// Service drives the Pending→Active transition and the unsubscribe path.
// The token is the sole credential for either.
type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// Confirm consumes a confirmation token. The state transition itself is a
// single conditional store update; of two concurrent calls with the same
// token exactly one observes ConfirmedNow and the other AlreadyConfirmed.
func (s *Service) Confirm(token string) (Outcome, *models.SubscriberModel, error) {
	if token == "" {
		return TokenNotFound, nil, nil
	}

	sub, err := s.store.GetByConfirmationToken(token)
	if errors.Is(err, store.ErrNotFound) {
		return TokenNotFound, nil, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("confirmation lookup: %w", err)
	}

	if sub.UnsubscribedAt != nil {
		return PreviouslyUnsubscribed, sub, nil
	}
	if sub.Status() == models.StatusActive {
		return AlreadyConfirmed, sub, nil
	}

	ok, err := s.store.Confirm(token, s.now())
	if err != nil {
		return 0, nil, fmt.Errorf("confirm subscriber: %w", err)
	}
	if ok {
		confirmed, err := s.store.GetByID(sub.ID)
		if err != nil {
			return 0, nil, fmt.Errorf("reload subscriber: %w", err)
		}
		return ConfirmedNow, confirmed, nil
	}

	// Lost a race on the token; reinspect the record to classify it.
	cur, err := s.store.GetByID(sub.ID)
	if errors.Is(err, store.ErrNotFound) {
		return TokenNotFound, nil, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("reload subscriber: %w", err)
	}
	switch {
	case cur.UnsubscribedAt != nil:
		return PreviouslyUnsubscribed, cur, nil
	case cur.Status() == models.StatusActive:
		return AlreadyConfirmed, cur, nil
	default:
		return TokenNotFound, cur, nil
	}
}

// Unsubscribe stamps unsubscribed_at for the record owning the stable
// unsubscribe token. Repeating it is not an error.
func (s *Service) Unsubscribe(token string) (UnsubOutcome, *models.SubscriberModel, error) {
	if token == "" {
		return UnsubTokenNotFound, nil, nil
	}

	sub, err := s.store.GetByUnsubscribeToken(token)
	if errors.Is(err, store.ErrNotFound) {
		return UnsubTokenNotFound, nil, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("unsubscribe lookup: %w", err)
	}

	if sub.UnsubscribedAt != nil {
		return AlreadyUnsubscribed, sub, nil
	}

	ok, err := s.store.Unsubscribe(token, s.now())
	if err != nil {
		return 0, nil, fmt.Errorf("unsubscribe subscriber: %w", err)
	}
	if !ok {
		return AlreadyUnsubscribed, sub, nil
	}
	return Unsubscribed, sub, nil
}
