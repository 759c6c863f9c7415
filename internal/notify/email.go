package notify

import (
	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/gomail.v2"

	"yak/config"
)

// EmailSender delivers a multipart notification email: a plaintext fallback
// produced by stripping markup, plus the rendered HTML body.
type EmailSender interface {
	Send(to, htmlMessage, replyTo string) error
}

type smtpEmailSender struct {
	cfg    *config.EmailConfig
	dialer *gomail.Dialer
	strip  *bluemonday.Policy
}

func NewEmailSender(cfg *config.EmailConfig) EmailSender {
	return &smtpEmailSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		strip:  bluemonday.StrictPolicy(),
	}
}

func (s *smtpEmailSender) Send(to, htmlMessage, replyTo string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", s.cfg.Subject)
	if replyTo != "" {
		m.SetHeader("Reply-To", replyTo)
	}
	m.SetBody("text/plain", s.strip.Sanitize(htmlMessage))
	m.AddAlternative("text/html", htmlMessage)
	return s.dialer.DialAndSend(m)
}
