package store

import (
	"errors"
	"time"

	"github.com/maquinsa/site-core/internal/models"
	"gorm.io/gorm"
)

type gormStore struct{ db *gorm.DB }

// NewGorm returns a Store backed by a GORM connection. The connection must
// run with TranslateError enabled so unique-key violations are detectable.
func NewGorm(db *gorm.DB) Store { return &gormStore{db: db} }

func (s *gormStore) Create(sub *models.SubscriberModel) error {
	if err := s.db.Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *gormStore) getOne(query string, arg interface{}) (*models.SubscriberModel, error) {
	var sub models.SubscriberModel
	if err := s.db.Where(query, arg).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *gormStore) GetByEmail(email string) (*models.SubscriberModel, error) {
	return s.getOne("email = ?", email)
}

func (s *gormStore) GetByConfirmationToken(token string) (*models.SubscriberModel, error) {
	return s.getOne("confirmation_token = ?", token)
}

func (s *gormStore) GetByUnsubscribeToken(token string) (*models.SubscriberModel, error) {
	return s.getOne("unsubscribe_token = ?", token)
}

func (s *gormStore) GetByID(id string) (*models.SubscriberModel, error) {
	return s.getOne("id = ?", id)
}

func (s *gormStore) Update(id string, fields map[string]interface{}) error {
	res := s.db.Model(&models.SubscriberModel{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) Confirm(token string, now time.Time) (bool, error) {
	// The token is cleared in the same statement that matches it, so of two
	// concurrent confirms exactly one can affect a row. confirmed_at is
	// stamped only on first confirmation and survives later lifecycles.
	res := s.db.Model(&models.SubscriberModel{}).
		Where("confirmation_token = ? AND unsubscribed_at IS NULL", token).
		Updates(map[string]interface{}{
			"is_active":          true,
			"confirmed_at":       gorm.Expr("COALESCE(confirmed_at, ?)", now),
			"confirmation_token": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) Activate(id string, now time.Time) (bool, error) {
	res := s.db.Model(&models.SubscriberModel{}).
		Where("id = ? AND unsubscribed_at IS NULL AND (is_active = ? OR confirmed_at IS NULL)", id, false).
		Updates(map[string]interface{}{
			"is_active":          true,
			"confirmed_at":       gorm.Expr("COALESCE(confirmed_at, ?)", now),
			"confirmation_token": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) Unsubscribe(token string, now time.Time) (bool, error) {
	res := s.db.Model(&models.SubscriberModel{}).
		Where("unsubscribe_token = ? AND unsubscribed_at IS NULL", token).
		Updates(map[string]interface{}{
			"is_active":       false,
			"unsubscribed_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) ListActive() ([]models.SubscriberModel, error) {
	var subs []models.SubscriberModel
	err := applyFilter(s.db.Model(&models.SubscriberModel{}), FilterActive).
		Order("created_at ASC").Find(&subs).Error
	return subs, err
}

func (s *gormStore) All() ([]models.SubscriberModel, error) {
	var subs []models.SubscriberModel
	err := s.db.Order("created_at ASC").Find(&subs).Error
	return subs, err
}

func (s *gormStore) List(f Filter, offset, limit int) ([]models.SubscriberModel, int64, error) {
	// Count and page apply the identical predicate so total_pages stays
	// consistent with the returned rows.
	var total int64
	if err := applyFilter(s.db.Model(&models.SubscriberModel{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []models.SubscriberModel
	if err := applyFilter(s.db.Model(&models.SubscriberModel{}), f).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func applyFilter(tx *gorm.DB, f Filter) *gorm.DB {
	switch f {
	case FilterActive:
		return tx.Where("is_active = ? AND confirmed_at IS NOT NULL AND unsubscribed_at IS NULL", true)
	case FilterPending:
		return tx.Where("unsubscribed_at IS NULL AND (is_active = ? OR confirmed_at IS NULL)", false)
	case FilterUnsubscribed:
		return tx.Where("unsubscribed_at IS NOT NULL")
	default:
		return tx
	}
}
