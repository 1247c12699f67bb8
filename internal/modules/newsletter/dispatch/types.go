package dispatch

import (
	"github.com/maquinsa/site-core/internal/modules/newsletter/locale"
	pkgmail "github.com/maquinsa/site-core/internal/pkg/mail"
)

const defaultReadingTime = 5

// ContentDTO is the publish event payload that triggers a dispatch.
type ContentDTO struct {
	ID               string `json:"id"        binding:"required"`
	TitleES          string `json:"title_es"  binding:"required"`
	TitleEN          string `json:"title_en"  binding:"required"`
	ExcerptES        string `json:"excerpt_es"`
	ExcerptEN        string `json:"excerpt_en"`
	Slug             string `json:"slug"      binding:"required"`
	FeaturedImageURL string `json:"featured_image_url"`
	CategoryES       string `json:"category_es"`
	CategoryEN       string `json:"category_en"`
	ReadingTime      int    `json:"reading_time"`
}

// LocalizedContent is the per-language view of one content item.
type LocalizedContent struct {
	Title    string
	Excerpt  string
	Category string
}

// ByLanguage builds the language → content table once, so cohort code
// never branches on a language code.
func (d *ContentDTO) ByLanguage() map[string]LocalizedContent {
	return map[string]LocalizedContent{
		locale.ES: {Title: d.TitleES, Excerpt: d.ExcerptES, Category: d.CategoryES},
		locale.EN: {Title: d.TitleEN, Excerpt: d.ExcerptEN, Category: d.CategoryEN},
	}
}

// Result is the outcome of one dispatch run. A failed cohort lands in
// Errors and keeps its zero count; it never hides the cohorts that went out.
type Result struct {
	Sent        int            `json:"sent"`
	PerLanguage map[string]int `json:"perLanguageCounts"`
	Errors      []string       `json:"errors,omitempty"`
}

// Mailer is the external send capability. One SendBatch call is the unit
// of failure isolation between cohorts.
type Mailer interface {
	SendBatch(msgs []pkgmail.Message) error
}
