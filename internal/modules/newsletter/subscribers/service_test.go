package subscribers

import (
	"testing"
	"time"

	"github.com/maquinsa/site-core/internal/models"
	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemory()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	confirm := base
	download := base

	subs := []*models.SubscriberModel{
		{
			Email:            "active@example.com",
			Language:         "es",
			UnsubscribeToken: "u1",
			IsActive:         true,
			ConfirmedAt:      &confirm,
		},
		{
			Email:               "both@example.com",
			Name:                "Buyer",
			Company:             "Acme",
			Language:            "en",
			UnsubscribeToken:    "u2",
			IsActive:            true,
			ConfirmedAt:         &confirm,
			CatalogDownloadedAt: &download,
			DownloadSource:      "products-page",
		},
		{
			Email:               "lead@example.com",
			Language:            "es",
			UnsubscribeToken:    "u3",
			CatalogDownloadedAt: &download,
		},
		{
			Email:            "gone@example.com",
			Language:         "es",
			UnsubscribeToken: "u4",
			UnsubscribedAt:   &confirm,
		},
	}
	for i, sub := range subs {
		sub.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, st.Create(sub))
	}
	return st
}

func TestListDerivesStatusAndInterest(t *testing.T) {
	svc := NewService(seedStore(t))

	rows, total, err := svc.List(store.FilterAll, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, rows, 4)

	byEmail := map[string]Row{}
	for _, r := range rows {
		byEmail[r.Email] = r
	}

	assert.Equal(t, models.StatusActive, byEmail["active@example.com"].Status)
	assert.Equal(t, models.InterestNewsletter, byEmail["active@example.com"].Interest)

	assert.Equal(t, models.StatusActive, byEmail["both@example.com"].Status)
	assert.Equal(t, models.InterestBoth, byEmail["both@example.com"].Interest)
	assert.Equal(t, "Acme", byEmail["both@example.com"].Company)

	assert.Equal(t, models.StatusPending, byEmail["lead@example.com"].Status)
	assert.Equal(t, models.InterestCatalog, byEmail["lead@example.com"].Interest)

	assert.Equal(t, models.StatusUnsubscribed, byEmail["gone@example.com"].Status)
}

func TestListFilterAndPagination(t *testing.T) {
	svc := NewService(seedStore(t))

	rows, total, err := svc.List(store.FilterActive, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	// One row per page; the total keeps counting the full filtered set.
	rows, total, err = svc.List(store.FilterAll, 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, rows, 1)
	// Newest first.
	assert.Equal(t, "gone@example.com", rows[0].Email)

	rows, _, err = svc.List(store.FilterAll, 3, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "active@example.com", rows[0].Email)
}
