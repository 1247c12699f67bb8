package intake

import (
	"strings"

	"github.com/maquinsa/site-core/internal/models"
)

// DefaultSource is recorded when a download intake carries no source.
const DefaultSource = "products-page"

// SubscribeDTO is the body of a newsletter signup request.
type SubscribeDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// DownloadDTO is the body of a catalog download request.
type DownloadDTO struct {
	Email               string `json:"email"   binding:"required,email"`
	Name                string `json:"name"`
	Company             string `json:"company"`
	SubscribeNewsletter bool   `json:"subscribeNewsletter"`
	Language            string `json:"language"`
	Source              string `json:"source"`
}

// Request is one normalized intake, either kind.
type Request struct {
	Email    string
	Name     string
	Company  string
	Language string
	Source   string
	// Subscribe is the immediate opt-in flag of the download form.
	Subscribe bool
	// Download marks a catalog download intake; false means an explicit
	// newsletter signup, which always goes through confirmation.
	Download bool
}

// Result reports whether the intake created a record or merged into one.
type Result struct {
	Created    bool
	Subscriber *models.SubscriberModel
}

// NormalizeEmail lowercases and trims an address before any lookup.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
