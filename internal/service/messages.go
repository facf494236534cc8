package service

import (
	"fmt"
	"strings"

	"ticketbot/internal/model"
)

// GroupNotification formats the structured ticket announcement posted
// to the department staff group. It includes the two staff commands
// usable against the ticket.
func GroupNotification(t *model.Ticket) string {
	return fmt.Sprintf(
		"🎫 NEW TICKET\n\n"+
			"Ticket ID: #%s\n"+
			"User ID: %d\n"+
			"Department: %s\n\n"+
			"Issue:\n%s\n\n"+
			"/reply %s your message\n"+
			"/close %s",
		t.ID, t.UserID, strings.ToUpper(t.Department), t.Issue, t.ID, t.ID,
	)
}

// UserConfirmation formats the message shown to the user after their
// ticket is created. The user id / ticket id pair doubles as a manual
// verification code for staff.
func UserConfirmation(t *model.Ticket) string {
	return fmt.Sprintf(
		"✅ Ticket Created\n\n"+
			"A human admin from TFR_Support will contact you shortly.\n\n"+
			"Verification Code:\n"+
			"User ID: %d\n"+
			"Ticket ID: #%s",
		t.UserID, t.ID,
	)
}

// StaffReply formats a staff message relayed to the ticket owner.
func StaffReply(ticketID, text string) string {
	return fmt.Sprintf("📩 Support Reply (Ticket #%s):\n\n%s", ticketID, text)
}

// ClosureNotice formats the message sent to the ticket owner when
// their ticket is closed.
func ClosureNotice(ticketID string) string {
	return fmt.Sprintf("✅ Your ticket #%s has been closed.", ticketID)
}
