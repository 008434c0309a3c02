package ports

// Notification is a single message to an actor, typically a seller being
// told about an approval decision.
type Notification struct {
	RecipientID    string
	RecipientEmail string
	Subject        string
	Body           string
}

// Notifier delivers notifications best-effort. Notify must not block the
// caller and must never surface delivery failures: a state transition is
// committed before its notification is enqueued, and a lost email does not
// roll it back.
type Notifier interface {
	Notify(n Notification)
}
