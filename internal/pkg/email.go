package pkg

import (
	cryptoRand "crypto/rand"
	"crypto/tls"
	"fmt"
	"html"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"Alumni_Network/internal/config"
)

// Sender delivers one HTML mail.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// Mailer sends over SMTP with gomail.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: m.cfg.Host}
	return d.DialAndSend(msg)
}

// LogMailer stands in for SMTP in development. Bodies are logged at debug
// level only.
type LogMailer struct {
	Log *zap.Logger
}

func (m *LogMailer) Send(to, subject, htmlBody string) error {
	m.Log.Info("mail (smtp disabled)", zap.String("to", to), zap.String("subject", subject))
	m.Log.Debug("mail body", zap.String("to", to), zap.String("body", htmlBody))
	return nil
}

// RandDigits returns n decimal digits from crypto/rand.
func RandDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}

func EmailCodeHTML(action, code string, ttl time.Duration) string {
	return fmt.Sprintf(`<p>Hello,</p><p>Your code to <b>%s</b> is <b style="font-size:18px;">%s</b>.</p><p>It expires in %d minutes. Do not share it.</p>`,
		html.EscapeString(action), code, int(ttl.Minutes()))
}

func NotificationHTML(title, message, link string) string {
	body := fmt.Sprintf(`<p><b>%s</b></p><p>%s</p>`, html.EscapeString(title), html.EscapeString(message))
	if link != "" {
		body += fmt.Sprintf(`<p><a href="%s">Open</a></p>`, html.EscapeString(link))
	}
	return body
}
