package bot

// User-facing texts for the intake flow. Staff-facing and relayed
// texts live next to the services that send them.
const (
	welcomeText = "Welcome to TFR Support.\n\nSelect a department:"

	askIssueText = "Please describe your issue in detail."

	startFirstText = "Please type /start first."

	failureText = "⚠️ Something went wrong. Please try again."

	helpText = "🎫 TFR Support\n\n" +
		"/start — open the department menu and file a ticket\n" +
		"/help — show this message\n\n" +
		"Staff commands (group only):\n" +
		"/reply <ticket_id> <message> — answer the ticket owner\n" +
		"/close <ticket_id> — close a ticket"
)
