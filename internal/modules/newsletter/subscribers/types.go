package subscribers

import (
	"time"

	"github.com/maquinsa/site-core/internal/models"
)

// Row is the admin view of one subscriber: the stored columns plus the
// derived status and interest tags.
type Row struct {
	ID                  string                  `json:"id"`
	Email               string                  `json:"email"`
	Name                string                  `json:"name,omitempty"`
	Company             string                  `json:"company,omitempty"`
	Language            string                  `json:"language"`
	Status              models.SubscriberStatus `json:"status"`
	Interest            models.Interest         `json:"interest"`
	Created             time.Time               `json:"created"`
	ConfirmedAt         *time.Time              `json:"confirmed_at,omitempty"`
	UnsubscribedAt      *time.Time              `json:"unsubscribed_at,omitempty"`
	CatalogDownloadedAt *time.Time              `json:"catalog_downloaded_at,omitempty"`
	DownloadSource      string                  `json:"download_source,omitempty"`
}

func toRow(sub *models.SubscriberModel) Row {
	return Row{
		ID:                  sub.ID,
		Email:               sub.Email,
		Name:                sub.Name,
		Company:             sub.Company,
		Language:            sub.Language,
		Status:              sub.Status(),
		Interest:            sub.Interest(),
		Created:             sub.CreatedAt,
		ConfirmedAt:         sub.ConfirmedAt,
		UnsubscribedAt:      sub.UnsubscribedAt,
		CatalogDownloadedAt: sub.CatalogDownloadedAt,
		DownloadSource:      sub.DownloadSource,
	}
}
