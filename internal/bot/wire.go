package bot

import (
	tg "ticketbot/core/telegram"
	"ticketbot/core/telegram/commands"
	"ticketbot/core/telegram/router"
	"ticketbot/internal/session"

	tele "gopkg.in/telebot.v4"
)

// deptCallbackKey is the callback unique shared by all department
// menu buttons; the department tag travels in the payload.
const deptCallbackKey = "dept"

// BuildRegistry registers the bot surface: user commands, staff
// commands (hidden from the public command list) and the department
// selection callback.
func BuildRegistry(h *Handlers) *tg.Registry {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Open the department menu",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     h.Help,
		Description: "Show available commands",
	})
	reg.RegisterCommand("/reply", commands.Command{
		Handler:     h.Reply,
		Description: "Reply to a ticket owner",
		Hidden:      true,
	})
	reg.RegisterCommand("/close", commands.Command{
		Handler:     h.Close,
		Description: "Close a ticket",
		Hidden:      true,
	})

	_ = reg.RegisterCallback(deptCallbackKey, h.DepartmentSelected)
	reg.SetCallbackNotFound(h.CallbackNotFound)
	reg.SetTextFallback(h.UnknownText)

	return reg
}

// intakeFSM adapts the session manager plus the issue handler to the
// text router's conversation interface.
type intakeFSM struct {
	sessions *session.Manager
	handle   tele.HandlerFunc
}

func (f *intakeFSM) InProgress(userID int64) bool {
	return f.sessions.InProgress(userID)
}

func (f *intakeFSM) ManagerHandler(c tele.Context) error {
	return f.handle(c)
}

// Routes assembles all bot routes: one per command, the callback
// router and the text router with the intake conversation first.
func Routes(reg *tg.Registry, h *Handlers, sessions *session.Manager) []tg.Route {
	routes := router.CommandRoutes(reg)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: h.CallbackNotFound,
	}))
	routes = append(routes, router.TextRoute(
		&intakeFSM{sessions: sessions, handle: h.ReceiveIssue},
		reg,
		router.TextOptions{UnknownText: h.UnknownText},
	))
	return routes
}
