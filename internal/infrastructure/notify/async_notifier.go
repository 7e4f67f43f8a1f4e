package notify

import (
	"context"
	"errors"
	"log"
	"time"

	"translation_desk/internal/usecase/interfaces"
)

var ErrQueueFull = errors.New("notification queue full")

type envelope struct {
	to      []string
	subject string
	body    string
}

// AsyncNotifier decouples delivery from the request. Send only enqueues; Run delivers
// one message at a time. When the queue is full the message is dropped.
type AsyncNotifier struct {
	next    interfaces.INotifier
	queue   chan envelope
	timeout time.Duration
}

var _ interfaces.INotifier = (*AsyncNotifier)(nil)

func NewAsyncNotifier(next interfaces.INotifier, size int, timeout time.Duration) *AsyncNotifier {
	if size <= 0 {
		size = 100
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AsyncNotifier{next: next, queue: make(chan envelope, size), timeout: timeout}
}

func (n *AsyncNotifier) Send(_ context.Context, to []string, subject, body string) error {
	env := envelope{to: append([]string(nil), to...), subject: subject, body: body}
	select {
	case n.queue <- env:
		return nil
	default:
		log.Printf("[notify][async] queue full, dropping subject=%q recipients=%d", subject, len(to))
		return ErrQueueFull
	}
}

// Run delivers queued messages until ctx is done, then flushes what is already queued.
func (n *AsyncNotifier) Run(ctx context.Context) error {
	for {
		select {
		case env := <-n.queue:
			n.deliver(env)
		case <-ctx.Done():
			n.flush()
			return nil
		}
	}
}

func (n *AsyncNotifier) flush() {
	for {
		select {
		case env := <-n.queue:
			n.deliver(env)
		default:
			return
		}
	}
}

func (n *AsyncNotifier) deliver(env envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	if err := n.next.Send(ctx, env.to, env.subject, env.body); err != nil {
		log.Printf("[notify][async] delivery failed subject=%q err=%v", env.subject, err)
	}
}
