package intake

import (
	"errors"
	"fmt"
	"time"

	"github.com/maquinsa/site-core/internal/models"
	"github.com/maquinsa/site-core/internal/modules/newsletter/locale"
	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
	"github.com/maquinsa/site-core/internal/pkg/token"
)

// Service resolves signup and download intakes against the one canonical
// subscriber record per email.
type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// Intake creates or merges a subscriber record. Creation is an atomic
// conditional insert; losing the unique-email race falls back to the merge
// path, so concurrent first-time intakes never produce two rows.
func (s *Service) Intake(req Request) (*Result, error) {
	req.Email = NormalizeEmail(req.Email)
	req.Language = locale.Normalize(req.Language)
	if req.Download && req.Source == "" {
		req.Source = DefaultSource
	}

	sub, err := s.store.GetByEmail(req.Email)
	switch {
	case err == nil:
		merged, err := s.merge(sub, req)
		if err != nil {
			return nil, err
		}
		return &Result{Created: false, Subscriber: merged}, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("subscriber lookup: %w", err)
	}

	fresh, err := s.newSubscriber(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(fresh); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			existing, lerr := s.store.GetByEmail(req.Email)
			if lerr != nil {
				return nil, fmt.Errorf("subscriber lookup after conflict: %w", lerr)
			}
			merged, merr := s.merge(existing, req)
			if merr != nil {
				return nil, merr
			}
			return &Result{Created: false, Subscriber: merged}, nil
		}
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	return &Result{Created: true, Subscriber: fresh}, nil
}

func (s *Service) newSubscriber(req Request) (*models.SubscriberModel, error) {
	now := s.now()

	unsubToken, err := token.New()
	if err != nil {
		return nil, err
	}

	sub := &models.SubscriberModel{
		Email:            req.Email,
		Name:             req.Name,
		Company:          req.Company,
		Language:         req.Language,
		UnsubscribeToken: unsubToken,
	}
	if req.Download {
		t := now
		sub.CatalogDownloadedAt = &t
		sub.DownloadSource = req.Source
	}
	if req.Subscribe {
		t := now
		sub.IsActive = true
		sub.ConfirmedAt = &t
	} else {
		confirmToken, err := token.New()
		if err != nil {
			return nil, err
		}
		sub.ConfirmationToken = &confirmToken
	}
	return sub, nil
}

// merge is additive: name/company only overwrite when supplied, the
// language is last-writer-wins, repeated downloads refresh the timestamp.
// A download intake never touches unsubscribed_at; only an explicit signup
// resets an unsubscribed record to pending, and reactivation then requires
// a fresh confirmation.
func (s *Service) merge(sub *models.SubscriberModel, req Request) (*models.SubscriberModel, error) {
	now := s.now()

	updates := map[string]interface{}{"language": req.Language}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Company != "" {
		updates["company"] = req.Company
	}
	if req.Download {
		updates["catalog_downloaded_at"] = now
		updates["download_source"] = req.Source
	}
	if !req.Download && sub.Status() != models.StatusActive {
		confirmToken, err := token.New()
		if err != nil {
			return nil, err
		}
		updates["confirmation_token"] = confirmToken
		if sub.UnsubscribedAt != nil {
			updates["unsubscribed_at"] = nil
			updates["is_active"] = false
		}
	}

	if err := s.store.Update(sub.ID, updates); err != nil {
		return nil, fmt.Errorf("merge subscriber: %w", err)
	}

	if req.Subscribe && sub.UnsubscribedAt == nil && sub.Status() != models.StatusActive {
		if _, err := s.store.Activate(sub.ID, now); err != nil {
			return nil, fmt.Errorf("activate subscriber: %w", err)
		}
	}

	merged, err := s.store.GetByID(sub.ID)
	if err != nil {
		return nil, fmt.Errorf("reload subscriber: %w", err)
	}
	return merged, nil
}
