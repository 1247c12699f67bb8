package confirm

import (
	"bytes"
	"html/template"

	"github.com/gin-gonic/gin"
)

const resultPageTpl = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
</head>
<body style="font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;background:#f5f5f5;margin:0;padding:40px 16px">
  <div style="max-width:480px;margin:0 auto;background:#fff;border-radius:8px;padding:32px;text-align:center;box-shadow:0 4px 6px -1px rgb(0 0 0 / .1)">
    <h1 style="font-size:20px;color:#111">{{.Title}}</h1>
    <p style="font-size:14px;line-height:22px;color:#444">{{.Body}}</p>
    <p style="margin-top:28px">
      <a href="{{.SiteURL}}" style="background:#1d4ed8;color:#fff;padding:10px 18px;text-decoration:none;border-radius:4px;font-size:13px">{{.BackLabel}}</a>
    </p>
    <p style="font-size:11px;color:#9ca3af;margin-top:24px">{{.SiteName}}</p>
  </div>
</body>
</html>`

var resultPage = template.Must(template.New("result").Parse(resultPageTpl))

type pageData struct {
	Lang      string
	Title     string
	Body      string
	SiteURL   string
	SiteName  string
	BackLabel string
}

func renderPage(c *gin.Context, status int, data pageData) {
	var buf bytes.Buffer
	if err := resultPage.Execute(&buf, data); err != nil {
		c.String(status, "%s", data.Title)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
