package dispatch

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/maquinsa/site-core/internal/config"
	"github.com/maquinsa/site-core/internal/models"
	"github.com/maquinsa/site-core/internal/modules/newsletter/locale"
	"github.com/maquinsa/site-core/internal/modules/newsletter/store"
	pkgmail "github.com/maquinsa/site-core/internal/pkg/mail"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

// Service fans a publish event out to the Active subscriber base, one
// batch per language cohort.
type Service struct {
	store  store.Store
	mailer Mailer
	cfg    *config.AppConfig
	log    *zap.Logger
	md     goldmark.Markdown
}

func NewService(st store.Store, mailer Mailer, cfg *config.AppConfig, log *zap.Logger) *Service {
	return &Service{
		store:  st,
		mailer: mailer,
		cfg:    cfg,
		log:    log,
		md:     goldmark.New(),
	}
}

// Notify partitions Active subscribers into language cohorts and submits
// one batch per cohort. Cohorts are independent: a failed send is recorded
// in the result and never stops the remaining cohorts. An empty subscriber
// base is a successful no-op.
func (s *Service) Notify(content *ContentDTO) (*Result, error) {
	subs, err := s.store.ListActive()
	if err != nil {
		return nil, fmt.Errorf("list active subscribers: %w", err)
	}

	res := &Result{PerLanguage: map[string]int{}}
	if len(subs) == 0 {
		return res, nil
	}

	cohorts := map[string][]models.SubscriberModel{}
	for _, sub := range subs {
		lang := locale.Normalize(sub.Language)
		cohorts[lang] = append(cohorts[lang], sub)
	}

	localized := content.ByLanguage()
	for _, lang := range locale.Codes() {
		cohort := cohorts[lang]
		if len(cohort) == 0 {
			continue
		}
		if err := s.sendCohort(lang, cohort, localized[lang], content); err != nil {
			res.PerLanguage[lang] = 0
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", lang, err))
			s.log.Warn("cohort dispatch failed",
				zap.String("language", lang),
				zap.String("content_id", content.ID),
				zap.Int("recipients", len(cohort)),
				zap.Error(err))
			continue
		}
		res.PerLanguage[lang] = len(cohort)
		res.Sent += len(cohort)
	}
	return res, nil
}

func (s *Service) sendCohort(lang string, cohort []models.SubscriberModel, content LocalizedContent, dto *ContentDTO) error {
	copy := locale.Get(lang)

	excerpt, err := s.renderExcerpt(content.Excerpt)
	if err != nil {
		return fmt.Errorf("render excerpt: %w", err)
	}

	readingTime := dto.ReadingTime
	if readingTime <= 0 {
		readingTime = defaultReadingTime
	}

	subject := fmt.Sprintf(copy.NewsletterSubject, content.Title)
	detailURL := s.detailURL(lang, dto.Slug)

	msgs := make([]pkgmail.Message, 0, len(cohort))
	for _, sub := range cohort {
		html, err := pkgmail.RenderNewsletter(pkgmail.NewsletterData{
			Title:            content.Title,
			Excerpt:          excerpt,
			Category:         content.Category,
			ImageURL:         dto.FeaturedImageURL,
			ReadingTime:      fmt.Sprintf(copy.ReadingTime, readingTime),
			ReadMore:         copy.ReadMoreButton,
			DetailURL:        detailURL,
			UnsubscribeURL:   s.unsubscribeURL(sub.UnsubscribeToken),
			UnsubscribeLabel: copy.UnsubscribeLabel,
			SiteName:         s.cfg.SiteName,
		})
		if err != nil {
			return fmt.Errorf("render newsletter: %w", err)
		}
		msgs = append(msgs, pkgmail.Message{
			To:      []string{sub.Email},
			Subject: subject,
			HTML:    html,
		})
	}

	return s.mailer.SendBatch(msgs)
}

// renderExcerpt converts the stored markdown excerpt to email HTML.
func (s *Service) renderExcerpt(excerpt string) (template.HTML, error) {
	if strings.TrimSpace(excerpt) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(excerpt), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (s *Service) detailURL(lang, slug string) string {
	return fmt.Sprintf("%s/%s/blog/%s", strings.TrimRight(s.cfg.SiteURL, "/"), lang, slug)
}

func (s *Service) unsubscribeURL(token string) string {
	return fmt.Sprintf("%s/api/v2/newsletter/unsubscribe?token=%s",
		strings.TrimRight(s.cfg.ServerURL, "/"), url.QueryEscape(token))
}
