package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type smtpSender struct {
	addr     string
	host     string
	username string
	password string
	from     mail.Address
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender authenticates with PLAIN auth; smtp.SendMail upgrades the
// connection with STARTTLS when the server offers it.
func NewSMTPSender(host string, port int, username, password string, from mail.Address) Sender {
	return &smtpSender{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		host:     host,
		username: username,
		password: password,
		from:     from,
		send:     smtp.SendMail,
	}
}

func (s *smtpSender) Send(ctx context.Context, msg *Message) error {
	if !msg.HasRecipients() {
		return errors.New("message has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, addr.Address)
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := s.send(s.addr, auth, s.from.Address, to, buildMIME(s.from, msg)); err != nil {
		return errors.Wrapf(err, "smtp send to %s", strings.Join(to, ","))
	}
	return nil
}

func buildMIME(from mail.Address, msg *Message) []byte {
	var buf bytes.Buffer

	recipients := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		recipients = append(recipients, addr.String())
	}

	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if msg.TextBody == "" {
		buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
		buf.WriteString(msg.HTMLBody)
		return buf.Bytes()
	}

	boundary := uuid.NewString()
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&buf, "--%s\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s\r\n", boundary, msg.TextBody)
	if msg.HTMLBody != "" {
		fmt.Fprintf(&buf, "--%s\r\nContent-Type: text/html; charset=\"utf-8\"\r\n\r\n%s\r\n", boundary, msg.HTMLBody)
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return buf.Bytes()
}
