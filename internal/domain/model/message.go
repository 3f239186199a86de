package model

// Event names the application event a notification is sent for.
type Event string

const (
	EventRegistration Event = "registration"
	EventLogin        Event = "login"
	EventNewOrder     Event = "new_order"
)

// Message is a plain-text email ready to be handed to a mail transport.
type Message struct {
	Event   Event
	From    string
	To      string
	Subject string
	Body    string
}
