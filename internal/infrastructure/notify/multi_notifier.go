package notify

import (
	"context"
	"errors"

	"translation_desk/internal/usecase/interfaces"
)

// MultiNotifier fans a message out to every channel. One failing channel does not
// stop the others.
type MultiNotifier []interfaces.INotifier

var _ interfaces.INotifier = MultiNotifier(nil)

func (m MultiNotifier) Send(ctx context.Context, to []string, subject, body string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, to, subject, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
