package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/maquinsa/site-core/internal/models"
	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
)

const (
	recentWindow   = 30 * 24 * time.Hour
	histogramSpan  = 6
	recentListSize = 5
)

// Service computes aggregate metrics over the subscriber set. The
// population for every metric except the confirmation rate is Active
// subscribers only.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) Compute(now time.Time) (*Summary, error) {
	subs, err := s.store.All()
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}

	var active []models.SubscriberModel
	var pending int
	for _, sub := range subs {
		switch sub.Status() {
		case models.StatusActive:
			active = append(active, sub)
		case models.StatusPending:
			pending++
		}
	}

	summary := &Summary{
		TotalSubscribers:  len(active),
		ConfirmationRate:  confirmationRate(len(active), pending),
		LanguageBreakdown: map[string]int{},
		MonthlyHistogram:  monthlyHistogram(active, now),
		RecentList:        recentList(active),
	}

	cutoff := now.Add(-recentWindow)
	for _, sub := range active {
		summary.LanguageBreakdown[sub.Language]++
		if !sub.CreatedAt.Before(cutoff) {
			summary.RecentSubscribers++
		}
	}

	return summary, nil
}

// confirmationRate is confirmed/(confirmed+pending) as a percentage with
// one decimal, 0 when nobody has been asked yet.
func confirmationRate(confirmed, pending int) float64 {
	denom := confirmed + pending
	if denom == 0 {
		return 0
	}
	return math.Round(float64(confirmed)/float64(denom)*1000) / 10
}

// monthlyHistogram buckets Active signups into the six calendar months
// ending at the current one. A created_at on a month's last instant stays
// in that month; empty months appear with count 0.
func monthlyHistogram(active []models.SubscriberModel, now time.Time) []MonthBucket {
	buckets := make([]MonthBucket, 0, histogramSpan)
	for i := histogramSpan - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		next := start.AddDate(0, 1, 0)

		count := 0
		for _, sub := range active {
			created := sub.CreatedAt.In(now.Location())
			if !created.Before(start) && created.Before(next) {
				count++
			}
		}
		buckets = append(buckets, MonthBucket{Month: start.Format("2006-01"), Count: count})
	}
	return buckets
}

// recentList returns the five most recently confirmed Active subscribers,
// ties broken by id for determinism.
func recentList(active []models.SubscriberModel) []RecentSubscriber {
	sorted := make([]models.SubscriberModel, len(active))
	copy(sorted, active)
	sort.Slice(sorted, func(i, j int) bool {
		ci, cj := *sorted[i].ConfirmedAt, *sorted[j].ConfirmedAt
		if ci.Equal(cj) {
			return sorted[i].ID < sorted[j].ID
		}
		return ci.After(cj)
	})

	if len(sorted) > recentListSize {
		sorted = sorted[:recentListSize]
	}
	list := make([]RecentSubscriber, 0, len(sorted))
	for _, sub := range sorted {
		list = append(list, RecentSubscriber{
			ID:          sub.ID,
			Email:       sub.Email,
			Name:        sub.Name,
			Language:    sub.Language,
			ConfirmedAt: *sub.ConfirmedAt,
		})
	}
	return list
}
