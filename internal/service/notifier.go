package service

import "context"

//go:generate mockgen -source=notifier.go -destination=notifier_mock.go -package=service

// Notifier delivers outbound text to a Telegram chat: a department
// group for ticket notifications or a user chat for staff relays.
// Implementations may deliver asynchronously; an error means the
// message could not be accepted for delivery.
type Notifier interface {
	SendTo(ctx context.Context, chatID int64, text string) error
}
