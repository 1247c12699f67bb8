package models

import "time"

// SubscriberStatus is the derived lifecycle state of a subscriber.
type SubscriberStatus string

const (
	StatusPending      SubscriberStatus = "pending"
	StatusActive       SubscriberStatus = "active"
	StatusUnsubscribed SubscriberStatus = "unsubscribed"
)

// Interest classifies what a subscriber has asked for.
type Interest string

const (
	InterestNewsletter Interest = "newsletter"
	InterestCatalog    Interest = "catalog"
	InterestBoth       Interest = "both"
)

// SubscriberModel is the single canonical record per email address.
// Email is stored normalized (lowercase, trimmed) and is the natural key.
type SubscriberModel struct {
	Base
	Email               string     `json:"email"                 gorm:"uniqueIndex;not null;size:191"`
	Name                string     `json:"name"`
	Company             string     `json:"company"`
	Language            string     `json:"language"              gorm:"size:5;default:es"`
	IsActive            bool       `json:"is_active"             gorm:"default:false"`
	ConfirmedAt         *time.Time `json:"confirmed_at"`
	ConfirmationToken   *string    `json:"-"                     gorm:"uniqueIndex;size:64"`
	UnsubscribeToken    string     `json:"-"                     gorm:"uniqueIndex;not null;size:64"`
	UnsubscribedAt      *time.Time `json:"unsubscribed_at"`
	CatalogDownloadedAt *time.Time `json:"catalog_downloaded_at"`
	DownloadSource      string     `json:"download_source"`
}

func (SubscriberModel) TableName() string { return "subscribers" }

// Status collapses the three state flags into one logical status.
// An unsubscribed_at timestamp is terminal and overrides everything else.
func (s *SubscriberModel) Status() SubscriberStatus {
	switch {
	case s.UnsubscribedAt != nil:
		return StatusUnsubscribed
	case s.IsActive && s.ConfirmedAt != nil:
		return StatusActive
	default:
		return StatusPending
	}
}

// Interest reports whether the record is a newsletter signup, a catalog
// lead, or both.
func (s *SubscriberModel) Interest() Interest {
	hasDownload := s.CatalogDownloadedAt != nil
	active := s.Status() == StatusActive
	switch {
	case hasDownload && active:
		return InterestBoth
	case hasDownload:
		return InterestCatalog
	default:
		return InterestNewsletter
	}
}
