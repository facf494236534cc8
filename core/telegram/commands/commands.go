package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
// Hidden commands are registered but excluded from the Telegram command menu;
// staff-only commands use this so end users never see them.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Hidden      bool
}
