package mail

import (
	"bytes"
	"html/template"
	"time"
)

const confirmTpl = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">{{.Subject}}</h2>
  <p>{{.Intro}}</p>
  <p style="margin-top:24px">
    <a href="{{.ConfirmURL}}" style="background:#1d4ed8;color:#fff;padding:10px 18px;text-decoration:none;border-radius:4px">{{.Button}}</a>
  </p>
  <p style="color:#999;font-size:12px">{{.Ignore}}</p>
  <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">©{{year}} {{.SiteName}}</p>
</div>
</body>
</html>`

const newsletterTpl = `<!DOCTYPE html>
<html>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,Noto Sans,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border-radius:.375rem;box-shadow:0 4px 6px -1px rgb(0 0 0 / .1),0 2px 4px -2px rgb(0 0 0 / .1);margin:40px auto;padding:20px;width:550px;position:relative;overflow:hidden;border:1px solid rgb(29,78,216)">
    <tbody>
      <tr><td>
        {{if .ImageURL}}
        <img src="{{.ImageURL}}" style="display:block;outline:none;border:none;text-decoration:none;margin:0 auto;border-radius:.5rem;width:100%" />
        {{end}}
        {{if .Category}}
        <p style="font-size:12px;letter-spacing:.05em;text-transform:uppercase;color:rgb(29,78,216);text-align:center;margin:16px 0 0">{{.Category}}</p>
        {{end}}
        <h1 style="font-size:20px;text-align:center">{{.Title}}</h1>
        <p style="font-size:12px;color:rgb(156,163,175);text-align:center;margin:0">{{.ReadingTime}}</p>
        <div style="font-size:14px;line-height:24px;margin:16px 0">{{.Excerpt}}</div>
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="text-align:center;margin-top:32px;margin-bottom:32px;position:relative">
          <tbody><tr><td>
            <a href="{{.DetailURL}}" target="_blank" style="line-height:100%;text-decoration:none;display:inline-block;max-width:100%;padding:12px 20px;background-color:rgb(29,78,216);border-radius:.25rem;color:#fff;font-size:12px;font-weight:600;text-align:center">{{.ReadMore}}</a>
          </td></tr></tbody>
        </table>
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">©{{year}} {{.SiteName}} · <a href="{{.UnsubscribeURL}}" style="color:rgb(156,163,175)">{{.UnsubscribeLabel}}</a></p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

// ConfirmData is the data for double-opt-in confirmation emails.
type ConfirmData struct {
	Subject    string
	Intro      string
	Button     string
	Ignore     string
	ConfirmURL string
	SiteName   string
}

// NewsletterData is the data for one newsletter email. Excerpt is already
// rendered HTML; everything except UnsubscribeURL is shared per cohort.
type NewsletterData struct {
	Title            string
	Excerpt          template.HTML
	Category         string
	ImageURL         string
	ReadingTime      string
	ReadMore         string
	DetailURL        string
	UnsubscribeURL   string
	UnsubscribeLabel string
	SiteName         string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderConfirm renders the confirmation email body.
func RenderConfirm(data ConfirmData) (string, error) {
	return renderTemplate(confirmTpl, data)
}

// RenderNewsletter renders one newsletter email body.
func RenderNewsletter(data NewsletterData) (string, error) {
	return renderTemplate(newsletterTpl, data)
}

// SendConfirm sends a double-opt-in confirmation email.
func (s *Sender) SendConfirm(to string, data ConfirmData) error {
	html, err := RenderConfirm(data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: data.Subject,
		HTML:    html,
	})
}
