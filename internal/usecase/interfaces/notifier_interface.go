package interfaces

import "context"

//go:generate mockgen -source=notifier_interface.go -destination=mocks/mock_notifier_interface.go -package=mock_interfaces

// INotifier delivers a message to one or more recipients. Body is HTML.
type INotifier interface {
	Send(ctx context.Context, to []string, subject, body string) error
}
