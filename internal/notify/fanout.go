package notify

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// FanoutGateway рассылает сообщение каждому получателю отдельно и параллельно
type FanoutGateway struct {
	sender  Sender
	timeout time.Duration
}

// NewFanoutGateway создает шлюз; timeout ограничивает доставку одному получателю
func NewFanoutGateway(sender Sender, timeout time.Duration) *FanoutGateway {
	return &FanoutGateway{
		sender:  sender,
		timeout: timeout,
	}
}

// Send доставляет сообщение всем корректным адресам. Пустой набор - не ошибка.
// При частичном сбое возвращается *DeliveryError, остальные получатели все равно обслужены.
func (g *FanoutGateway) Send(ctx context.Context, msg Message) error {
	recipients := normalizeRecipients(msg.To)
	if len(recipients) == 0 {
		return nil
	}

	var (
		mu       sync.Mutex
		failures = make(map[string]error)
		group    errgroup.Group
	)
	for _, to := range recipients {
		group.Go(func() error {
			deliverCtx, cancel := context.WithTimeout(ctx, g.timeout)
			defer cancel()

			if err := g.sender.Deliver(deliverCtx, to, msg.Subject, msg.Body); err != nil {
				mu.Lock()
				failures[to] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait()

	if len(failures) > 0 {
		return &DeliveryError{Failures: failures}
	}
	return nil
}
