package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"translation_desk/internal/config"
	"translation_desk/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var ErrMissingSender = errors.New("missing smtp from address")

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends multipart/alternative mail (plain text + HTML).
type SMTPNotifier struct {
	addr     string
	auth     smtp.Auth
	from     string
	sendMail sendMailFunc
	now      func() time.Time
}

var _ interfaces.INotifier = (*SMTPNotifier)(nil)

func NewSMTPNotifier(cfg config.SMTPConfig) (*SMTPNotifier, error) {
	if strings.TrimSpace(cfg.From) == "" {
		return nil, ErrMissingSender
	}
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPNotifier{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:     auth,
		from:     cfg.From,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}, nil
}

func (n *SMTPNotifier) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := n.buildMessage(to, subject, body)
	if err != nil {
		return err
	}
	if err := n.sendMail(n.addr, n.auth, n.from, to, msg); err != nil {
		log.Printf("[notify][smtp] send failed recipients=%d subject=%q err=%v", len(to), subject, err)
		return err
	}
	log.Printf("[notify][smtp] sent recipients=%d subject=%q", len(to), subject)
	return nil
}

func (n *SMTPNotifier) buildMessage(to []string, subject, htmlBody string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := []string{
		"From: " + n.from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"Date: " + n.now().UTC().Format(time.RFC1123Z),
		"Message-ID: <" + uuid.NewString() + "@" + domainOf(n.from) + ">",
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=" + mw.Boundary(),
	}
	var out bytes.Buffer
	out.WriteString(strings.Join(headers, "\r\n"))
	out.WriteString("\r\n\r\n")

	for _, part := range []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=utf-8", htmlToText(htmlBody)},
		{"text/html; charset=utf-8", htmlBody},
	} {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", part.contentType)
		h.Set("Content-Transfer-Encoding", "quoted-printable")
		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(part.content)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	out.Write(buf.Bytes())
	return out.Bytes(), nil
}

func domainOf(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 {
		return strings.Trim(addr[i+1:], "> ")
	}
	return "localhost"
}
