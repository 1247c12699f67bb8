package analytics

import "time"

// MonthBucket is one calendar month of the signup histogram.
type MonthBucket struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// RecentSubscriber is one row of the latest-confirmations list.
type RecentSubscriber struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	Language    string    `json:"language"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// Summary is the aggregate analytics payload.
type Summary struct {
	TotalSubscribers  int                `json:"totalSubscribers"`
	RecentSubscribers int                `json:"recentSubscribers"`
	ConfirmationRate  float64            `json:"confirmationRate"`
	LanguageBreakdown map[string]int     `json:"languageBreakdown"`
	MonthlyHistogram  []MonthBucket      `json:"monthlyHistogram"`
	RecentList        []RecentSubscriber `json:"recentList"`
}
