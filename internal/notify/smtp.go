package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPSender доставляет письма через SMTP с SSL
type SMTPSender struct {
	host    string
	from    string
	options []mail.Option
}

// NewSMTPSender создает отправителя; соединение открывается на каждое письмо,
// поэтому отправитель безопасен для параллельного использования
func NewSMTPSender(host string, port int, username, password, from string, timeout time.Duration) *SMTPSender {
	options := []mail.Option{
		mail.WithPort(port),
		mail.WithSSL(),
		mail.WithTimeout(timeout),
	}
	if username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	return &SMTPSender{
		host:    host,
		from:    from,
		options: options,
	}
}

func (s *SMTPSender) Deliver(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.host, s.options...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
