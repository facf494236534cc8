package bot

import (
	"context"
	"fmt"

	"ticketbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// TelegramNotifier delivers service messages through the async send
// dispatcher, so ticket notifications and staff relays share the same
// retry and backoff path as every other outbound message.
//
// The notifier is constructed before the bot exists and bound to the
// runtime in the OnStart hook, before any update is handled.
type TelegramNotifier struct {
	bot        *tele.Bot
	dispatcher *sender.Dispatcher
}

// NewTelegramNotifier returns an unbound notifier.
func NewTelegramNotifier() *TelegramNotifier {
	return &TelegramNotifier{}
}

// Bind attaches the live bot and dispatcher.
func (n *TelegramNotifier) Bind(bot *tele.Bot, d *sender.Dispatcher) {
	n.bot = bot
	n.dispatcher = d
}

// SendTo enqueues a plain-text message to the chat. An error means the
// dispatcher refused the job (closed or full); delivery errors after
// acceptance are handled by the dispatcher's retry loop.
func (n *TelegramNotifier) SendTo(ctx context.Context, chatID int64, text string) error {
	if n.bot == nil {
		return fmt.Errorf("notifier: bot not initialized")
	}
	recipient := &tele.Chat{ID: chatID}
	run := func() error {
		_, err := n.bot.Send(recipient, text)
		return err
	}
	if n.dispatcher == nil {
		return run()
	}
	return n.dispatcher.Enqueue(ctx, "send", "notify", run)
}
