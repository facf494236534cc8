package bot

import (
	"context"
	"errors"
	"strings"

	"ticketbot/core/logger"
	tgcallbacks "ticketbot/core/telegram/callbacks"
	tghelpers "ticketbot/core/telegram/helpers"
	"ticketbot/core/telegram/keyboard"
	"ticketbot/internal/config"
	"ticketbot/internal/service"
	"ticketbot/internal/session"
	"ticketbot/internal/store"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Handlers holds the bot's update handlers and their collaborators.
type Handlers struct {
	cfg      *config.Config
	sessions *session.Manager
	tickets  *service.Tickets
	staff    *service.Staff
}

// NewHandlers wires the handler set.
func NewHandlers(cfg *config.Config, sessions *session.Manager, tickets *service.Tickets, staff *service.Staff) *Handlers {
	return &Handlers{cfg: cfg, sessions: sessions, tickets: tickets, staff: staff}
}

// Start shows the department menu.
func (h *Handlers) Start(c tele.Context) error {
	buttons := make([]keyboard.InlineBtn, 0, len(h.cfg.Departments))
	for _, d := range h.cfg.Departments {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   d.Label,
			Unique: deptCallbackKey,
			Data:   d.Tag,
		})
	}
	return tghelpers.SendKeyboard(c, welcomeText, keyboard.InlineButtons(buttons))
}

// Help lists the available commands.
func (h *Handlers) Help(c tele.Context) error {
	return tghelpers.SendText(c, helpText)
}

// DepartmentSelected records the chosen department and asks for the
// issue text. A repeated selection overwrites the previous one.
func (h *Handlers) DepartmentSelected(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	tag := tgcallbacks.CallbackPayload(c)
	if !h.tickets.Department(tag) {
		return tghelpers.SendText(c, startFirstText)
	}
	h.sessions.Select(user.ID, tag)
	return tghelpers.SendText(c, askIssueText)
}

// ReceiveIssue handles free text from a user with a pending department
// selection: it files the ticket and confirms with the verification
// pair. The selection is cleared only after the ticket is created, so
// a transient store failure lets the user simply resend their text.
func (h *Handlers) ReceiveIssue(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	dept, ok := h.sessions.PendingDepartment(user.ID)
	if !ok {
		return tghelpers.SendText(c, startFirstText)
	}

	ticket, err := h.tickets.SubmitIssue(ctx, user.ID, dept, c.Text())
	if err != nil {
		if errors.Is(err, service.ErrUnknownDepartment) {
			h.sessions.Clear(user.ID)
			return tghelpers.SendText(c, startFirstText)
		}
		if sendErr := tghelpers.SendText(c, failureText); sendErr != nil {
			logger.TG.WarnContext(ctx, "failure notice not sent",
				slog.String("event", "issue.fail_notice"),
				slog.String("err", logger.Sanitize(sendErr.Error())),
			)
		}
		return err
	}

	h.sessions.Clear(user.ID)
	return tghelpers.SendText(c, service.UserConfirmation(ticket))
}

// Reply handles the staff command "/reply <ticket_id> <message...>".
// Malformed input, unknown tickets and closed tickets are silent
// no-ops, matching the staff-group etiquette of not echoing noise.
func (h *Handlers) Reply(c tele.Context) error {
	args := c.Args()
	if len(args) < 2 {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	ticketID := args[0]
	message := strings.Join(args[1:], " ")

	err := h.staff.Reply(ctx, ticketID, message)
	if err != nil && isSilentStaffErr(ctx, "reply", ticketID, err) {
		return nil
	}
	return err
}

// Close handles the staff command "/close <ticket_id>". Takes exactly
// one argument; the same silent no-op rules as Reply apply.
func (h *Handlers) Close(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	ticketID := args[0]

	err := h.staff.Close(ctx, ticketID)
	if err != nil && isSilentStaffErr(ctx, "close", ticketID, err) {
		return nil
	}
	return err
}

// UnknownText answers free text from users without a pending session.
func (h *Handlers) UnknownText(c tele.Context) error {
	return tghelpers.SendText(c, startFirstText)
}

// CallbackNotFound answers stale or unknown callback buttons.
func (h *Handlers) CallbackNotFound(c tele.Context) error {
	return tghelpers.SendText(c, startFirstText)
}

func isSilentStaffErr(ctx context.Context, action, ticketID string, err error) bool {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, service.ErrTicketClosed) {
		logger.SVCStaff.DebugContext(ctx, "staff command ignored",
			slog.String("event", "staff."+action+".skip"),
			slog.String("ticket_id", ticketID),
			slog.String("cause", err.Error()),
		)
		return true
	}
	return false
}
