package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusDerivation(t *testing.T) {
	now := time.Now()

	sub := &SubscriberModel{}
	assert.Equal(t, StatusPending, sub.Status())

	sub = &SubscriberModel{IsActive: true}
	assert.Equal(t, StatusPending, sub.Status(), "active flag without confirmed_at stays pending")

	sub = &SubscriberModel{IsActive: true, ConfirmedAt: &now}
	assert.Equal(t, StatusActive, sub.Status())

	// unsubscribed_at is terminal and overrides everything else.
	sub = &SubscriberModel{IsActive: true, ConfirmedAt: &now, UnsubscribedAt: &now}
	assert.Equal(t, StatusUnsubscribed, sub.Status())
}

func TestInterestDerivation(t *testing.T) {
	now := time.Now()

	sub := &SubscriberModel{}
	assert.Equal(t, InterestNewsletter, sub.Interest())

	sub = &SubscriberModel{CatalogDownloadedAt: &now}
	assert.Equal(t, InterestCatalog, sub.Interest())

	sub = &SubscriberModel{CatalogDownloadedAt: &now, IsActive: true, ConfirmedAt: &now}
	assert.Equal(t, InterestBoth, sub.Interest())

	// Unsubscribing demotes a both back to catalog.
	sub = &SubscriberModel{CatalogDownloadedAt: &now, IsActive: true, ConfirmedAt: &now, UnsubscribedAt: &now}
	assert.Equal(t, InterestCatalog, sub.Interest())
}
