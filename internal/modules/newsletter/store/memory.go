package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maquinsa/site-core/internal/models"
)

// MemoryStore is an in-memory Store used by tests. A single mutex gives it
// the same atomicity guarantees the SQL implementation gets from
// conditional statements, so lifecycle races behave identically.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]*models.SubscriberModel
	byEmail map[string]string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		byID:    map[string]*models.SubscriberModel{},
		byEmail: map[string]string{},
	}
}

func clone(sub *models.SubscriberModel) *models.SubscriberModel {
	cp := *sub
	if sub.ConfirmedAt != nil {
		t := *sub.ConfirmedAt
		cp.ConfirmedAt = &t
	}
	if sub.ConfirmationToken != nil {
		s := *sub.ConfirmationToken
		cp.ConfirmationToken = &s
	}
	if sub.UnsubscribedAt != nil {
		t := *sub.UnsubscribedAt
		cp.UnsubscribedAt = &t
	}
	if sub.CatalogDownloadedAt != nil {
		t := *sub.CatalogDownloadedAt
		cp.CatalogDownloadedAt = &t
	}
	return &cp
}

func (m *MemoryStore) Create(sub *models.SubscriberModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[sub.Email]; taken {
		return ErrDuplicateEmail
	}
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	sub.UpdatedAt = sub.CreatedAt

	m.byID[sub.ID] = clone(sub)
	m.byEmail[sub.Email] = sub.ID
	return nil
}

func (m *MemoryStore) find(match func(*models.SubscriberModel) bool) (*models.SubscriberModel, error) {
	for _, sub := range m.byID {
		if match(sub) {
			return clone(sub), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetByEmail(email string) (*models.SubscriberModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(m.byID[id]), nil
}

func (m *MemoryStore) GetByConfirmationToken(token string) (*models.SubscriberModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(s *models.SubscriberModel) bool {
		return s.ConfirmationToken != nil && *s.ConfirmationToken == token
	})
}

func (m *MemoryStore) GetByUnsubscribeToken(token string) (*models.SubscriberModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(s *models.SubscriberModel) bool {
		return s.UnsubscribeToken == token
	})
}

func (m *MemoryStore) GetByID(id string) (*models.SubscriberModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(sub), nil
}

func (m *MemoryStore) Update(id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	for key, val := range fields {
		applyField(sub, key, val)
	}
	sub.UpdatedAt = time.Now()
	return nil
}

func applyField(sub *models.SubscriberModel, key string, val interface{}) {
	switch key {
	case "name":
		sub.Name = val.(string)
	case "company":
		sub.Company = val.(string)
	case "language":
		sub.Language = val.(string)
	case "download_source":
		sub.DownloadSource = val.(string)
	case "catalog_downloaded_at":
		t := val.(time.Time)
		sub.CatalogDownloadedAt = &t
	case "confirmation_token":
		if val == nil {
			sub.ConfirmationToken = nil
			return
		}
		s := val.(string)
		sub.ConfirmationToken = &s
	case "is_active":
		sub.IsActive = val.(bool)
	case "unsubscribed_at":
		if val == nil {
			sub.UnsubscribedAt = nil
			return
		}
		t := val.(time.Time)
		sub.UnsubscribedAt = &t
	}
}

func (m *MemoryStore) Confirm(token string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.byID {
		if sub.ConfirmationToken == nil || *sub.ConfirmationToken != token {
			continue
		}
		if sub.UnsubscribedAt != nil {
			return false, nil
		}
		sub.IsActive = true
		if sub.ConfirmedAt == nil {
			t := now
			sub.ConfirmedAt = &t
		}
		sub.ConfirmationToken = nil
		sub.UpdatedAt = now
		return true, nil
	}
	return false, nil
}

func (m *MemoryStore) Activate(id string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	if sub.UnsubscribedAt != nil || (sub.IsActive && sub.ConfirmedAt != nil) {
		return false, nil
	}
	sub.IsActive = true
	if sub.ConfirmedAt == nil {
		t := now
		sub.ConfirmedAt = &t
	}
	sub.ConfirmationToken = nil
	sub.UpdatedAt = now
	return true, nil
}

func (m *MemoryStore) Unsubscribe(token string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.byID {
		if sub.UnsubscribeToken != token {
			continue
		}
		if sub.UnsubscribedAt != nil {
			return false, nil
		}
		sub.IsActive = false
		t := now
		sub.UnsubscribedAt = &t
		sub.UpdatedAt = now
		return true, nil
	}
	return false, nil
}

func (m *MemoryStore) snapshot(f Filter) []models.SubscriberModel {
	var subs []models.SubscriberModel
	for _, sub := range m.byID {
		if matchesFilter(sub, f) {
			subs = append(subs, *clone(sub))
		}
	}
	return subs
}

func matchesFilter(sub *models.SubscriberModel, f Filter) bool {
	switch f {
	case FilterActive:
		return sub.Status() == models.StatusActive
	case FilterPending:
		return sub.Status() == models.StatusPending
	case FilterUnsubscribed:
		return sub.Status() == models.StatusUnsubscribed
	default:
		return true
	}
}

func (m *MemoryStore) ListActive() ([]models.SubscriberModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.snapshot(FilterActive)
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.Before(subs[j].CreatedAt) })
	return subs, nil
}

func (m *MemoryStore) All() ([]models.SubscriberModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.snapshot(FilterAll)
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.Before(subs[j].CreatedAt) })
	return subs, nil
}

func (m *MemoryStore) List(f Filter, offset, limit int) ([]models.SubscriberModel, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := m.snapshot(f)
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})

	total := int64(len(subs))
	if offset >= len(subs) {
		return []models.SubscriberModel{}, total, nil
	}
	end := offset + limit
	if end > len(subs) {
		end = len(subs)
	}
	return subs[offset:end], total, nil
}
