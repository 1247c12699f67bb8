package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"
)

// Config holds mail provider settings.
type Config struct {
	Enable    bool
	Host      string
	Port      int
	User      string
	Pass      string
	From      string
	ReplyTo   string
	UseResend bool
	ResendKey string
}

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender sends emails via SMTP or Resend.
type Sender struct {
	cfg Config
}

func New(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Send dispatches a single email. Uses Resend if configured, otherwise SMTP.
func (s *Sender) Send(msg Message) error {
	if !s.cfg.Enable {
		return nil
	}
	if s.cfg.UseResend && s.cfg.ResendKey != "" {
		return s.sendResend([]Message{msg})
	}
	return s.sendSMTP(msg)
}

// SendBatch submits a group of personalized emails as one unit. The batch
// either reaches the provider or fails as a whole; callers treat the batch
// as their failure-isolation boundary.
func (s *Sender) SendBatch(msgs []Message) error {
	if !s.cfg.Enable || len(msgs) == 0 {
		return nil
	}
	if s.cfg.UseResend && s.cfg.ResendKey != "" {
		return s.sendResend(msgs)
	}
	for _, msg := range msgs {
		if err := s.sendSMTP(msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sender) from() string {
	if s.cfg.From != "" {
		return s.cfg.From
	}
	return s.cfg.User
}

// sendSMTP sends via net/smtp.
func (s *Sender) sendSMTP(msg Message) error {
	host := s.cfg.Host
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	from := s.from()

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if s.cfg.ReplyTo != "" {
		body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", s.cfg.ReplyTo))
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, host)
	return smtp.SendMail(addr, auth, from, msg.To, body.Bytes())
}

const resendBatchMax = 100

// sendResend sends via the Resend HTTP API, chunking into its batch limit.
func (s *Sender) sendResend(msgs []Message) error {
	for start := 0; start < len(msgs); start += resendBatchMax {
		end := start + resendBatchMax
		if end > len(msgs) {
			end = len(msgs)
		}
		if err := s.postResend(msgs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sender) postResend(msgs []Message) error {
	from := s.from()

	url := "https://api.resend.com/emails"
	var payload interface{}
	if len(msgs) == 1 {
		payload = resendPayload(from, msgs[0])
	} else {
		url = "https://api.resend.com/emails/batch"
		batch := make([]map[string]interface{}, 0, len(msgs))
		for _, msg := range msgs {
			batch = append(batch, resendPayload(from, msg))
		}
		payload = batch
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}

func resendPayload(from string, msg Message) map[string]interface{} {
	return map[string]interface{}{
		"from":    from,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
}
