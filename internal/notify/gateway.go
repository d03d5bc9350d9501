// Package notify доставляет оповещения больницам и ответственному лицу.
// Доставка всегда best-effort: сбой одного получателя не мешает остальным
// и не отменяет вызвавший запрос.
package notify

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"
)

// Message - оповещение для набора адресов
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Gateway - интерфейс шлюза оповещений
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}

// Sender доставляет сообщение одному получателю
type Sender interface {
	Deliver(ctx context.Context, to, subject, body string) error
}

// DeliveryError - часть получателей не получила сообщение
type DeliveryError struct {
	Failures map[string]error
}

func (e *DeliveryError) Error() string {
	recipients := e.Recipients()
	return fmt.Sprintf("delivery failed for %d recipient(s): %s", len(recipients), strings.Join(recipients, ", "))
}

// Recipients возвращает отсортированный список адресов с ошибкой доставки
func (e *DeliveryError) Recipients() []string {
	out := make([]string, 0, len(e.Failures))
	for to := range e.Failures {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}

// normalizeRecipients отбрасывает пустые и некорректные адреса и дубликаты
func normalizeRecipients(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	out := make([]string, 0, len(addresses))
	for _, raw := range addresses {
		addr := strings.TrimSpace(raw)
		if addr == "" {
			continue
		}
		if _, err := mail.ParseAddress(addr); err != nil {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}
