package intake

import (
	"testing"
	"time"

	"github.com/maquinsa/site-core/internal/models"
	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(st store.Store) *Service {
	svc := NewService(st)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestSignupCreatesPendingRecord(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st)

	res, err := svc.Intake(Request{Email: "  Ana@Example.COM ", Name: "Ana", Language: "ES"})
	require.NoError(t, err)
	assert.True(t, res.Created)

	sub := res.Subscriber
	assert.Equal(t, "ana@example.com", sub.Email)
	assert.Equal(t, "es", sub.Language)
	assert.Equal(t, models.StatusPending, sub.Status())
	require.NotNil(t, sub.ConfirmationToken)
	assert.NotEmpty(t, sub.UnsubscribeToken)
	assert.Nil(t, sub.ConfirmedAt)
}

func TestDownloadWithImmediateOptIn(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st)

	res, err := svc.Intake(Request{
		Email:     "buyer@example.com",
		Name:      "Buyer",
		Company:   "Acme",
		Language:  "en",
		Subscribe: true,
		Download:  true,
	})
	require.NoError(t, err)
	assert.True(t, res.Created)

	sub := res.Subscriber
	assert.Equal(t, models.StatusActive, sub.Status())
	assert.Nil(t, sub.ConfirmationToken)
	require.NotNil(t, sub.CatalogDownloadedAt)
	assert.Equal(t, DefaultSource, sub.DownloadSource)
	assert.Equal(t, models.InterestBoth, sub.Interest())
}

func TestImmediateOptInWithoutDownload(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st)

	res, err := svc.Intake(Request{Email: "a@b.com", Language: "en", Subscribe: true})
	require.NoError(t, err)
	assert.True(t, res.Created)

	sub := res.Subscriber
	assert.Equal(t, models.StatusActive, sub.Status())
	require.NotNil(t, sub.ConfirmedAt)
	assert.Nil(t, sub.ConfirmationToken)
	assert.Nil(t, sub.CatalogDownloadedAt)
	assert.Empty(t, sub.DownloadSource)
}

func TestDownloadWithoutOptIn(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st)

	res, err := svc.Intake(Request{Email: "lead@example.com", Download: true, Source: "landing"})
	require.NoError(t, err)

	sub := res.Subscriber
	assert.Equal(t, models.StatusPending, sub.Status())
	assert.Equal(t, "landing", sub.DownloadSource)
	assert.Equal(t, models.InterestCatalog, sub.Interest())
}

func TestRepeatedIntakeMergesOneRecord(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st)

	first, err := svc.Intake(Request{Email: "ana@example.com", Name: "Ana", Company: "Acme", Download: true})
	require.NoError(t, err)

	// A later signup without name or company keeps both.
	second, err := svc.Intake(Request{Email: "ana@example.com", Language: "en"})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Subscriber.ID, second.Subscriber.ID)
	assert.Equal(t, "Ana", second.Subscriber.Name)
	assert.Equal(t, "Acme", second.Subscriber.Company)
	assert.Equal(t, "en", second.Subscriber.Language)
	require.NotNil(t, second.Subscriber.CatalogDownloadedAt)

	all, err := st.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepeatedDownloadRefreshesTimestamp(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st)

	first := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	current := first
	svc.now = func() time.Time { return current }

	res, err := svc.Intake(Request{Email: "ana@example.com", Download: true, Source: "landing"})
	require.NoError(t, err)
	require.NotNil(t, res.Subscriber.CatalogDownloadedAt)
	assert.True(t, res.Subscriber.CatalogDownloadedAt.Equal(first))

	// The next download two days later refreshes the timestamp in place.
	current = first.Add(48 * time.Hour)
	again, err := svc.Intake(Request{Email: "ana@example.com", Download: true})
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.Subscriber.ID, again.Subscriber.ID)
	require.NotNil(t, again.Subscriber.CatalogDownloadedAt)
	assert.True(t, again.Subscriber.CatalogDownloadedAt.Equal(current))
	assert.Equal(t, DefaultSource, again.Subscriber.DownloadSource)

	all, err := st.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDownloadDoesNotResurrectUnsubscribed(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st)

	res, err := svc.Intake(Request{Email: "gone@example.com", Subscribe: true, Download: true})
	require.NoError(t, err)

	ok, err := st.Unsubscribe(res.Subscriber.UnsubscribeToken, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	// Even with the opt-in box ticked, a download leaves the record
	// unsubscribed.
	again, err := svc.Intake(Request{Email: "gone@example.com", Subscribe: true, Download: true})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnsubscribed, again.Subscriber.Status())
}

func TestSignupResetsUnsubscribedToPending(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st)

	res, err := svc.Intake(Request{Email: "back@example.com", Subscribe: true, Download: true})
	require.NoError(t, err)

	ok, err := st.Unsubscribe(res.Subscriber.UnsubscribeToken, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	again, err := svc.Intake(Request{Email: "back@example.com"})
	require.NoError(t, err)

	sub := again.Subscriber
	assert.Equal(t, models.StatusPending, sub.Status())
	assert.Nil(t, sub.UnsubscribedAt)
	require.NotNil(t, sub.ConfirmationToken)

	// Reactivation still goes through a fresh confirmation.
	okc, err := st.Confirm(*sub.ConfirmationToken, time.Now())
	require.NoError(t, err)
	assert.True(t, okc)
	final, err := st.GetByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, final.Status())
}

func TestSignupDoesNotTouchActiveRecord(t *testing.T) {
	st := store.NewMemory()
	svc := newTestService(st)

	res, err := svc.Intake(Request{Email: "ana@example.com", Subscribe: true, Download: true})
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, res.Subscriber.Status())

	again, err := svc.Intake(Request{Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, again.Subscriber.Status())
	assert.Nil(t, again.Subscriber.ConfirmationToken)
}

// raceStore simulates losing the unique-email race: the initial lookup
// misses, but the insert hits an already-taken email.
type raceStore struct {
	*store.MemoryStore
	missFirst bool
}

func (r *raceStore) GetByEmail(email string) (*models.SubscriberModel, error) {
	if r.missFirst {
		r.missFirst = false
		return nil, store.ErrNotFound
	}
	return r.MemoryStore.GetByEmail(email)
}

func TestConcurrentFirstIntakeFallsBackToMerge(t *testing.T) {
	mem := store.NewMemory()
	rs := &raceStore{MemoryStore: mem, missFirst: true}
	svc := newTestService(rs)

	// The winning request already inserted the row.
	now := time.Now()
	require.NoError(t, mem.Create(&models.SubscriberModel{
		Email:            "ana@example.com",
		UnsubscribeToken: "u1",
		IsActive:         true,
		ConfirmedAt:      &now,
	}))

	res, err := svc.Intake(Request{Email: "ana@example.com", Name: "Ana", Download: true})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "Ana", res.Subscriber.Name)

	all, err := mem.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  ANA@Example.Com\t"))
}
