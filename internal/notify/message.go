package notify

import "fmt"

// Mail kinds, used as the metrics label.
const (
	KindWelcome  = "welcome"
	KindFarewell = "farewell"
)

// Message is a plain-text mail to a single recipient.
type Message struct {
	Kind    string
	To      string
	Subject string
	Body    string
}

// WelcomeMessage greets a newly registered user.
func WelcomeMessage(name, email string) Message {
	return Message{
		Kind:    KindWelcome,
		To:      email,
		Subject: "Thanks for joining in!",
		Body: fmt.Sprintf("Hi %s, welcome to task manager! We're excited to have you. "+
			"Let us know how you get along with the app.", name),
	}
}

// FarewellMessage says goodbye to a user who deleted their account.
func FarewellMessage(name, email string) Message {
	return Message{
		Kind:    KindFarewell,
		To:      email,
		Subject: "We will miss you",
		Body: fmt.Sprintf("Hi %s, we're sad to see you leave. Let us know what we could have "+
			"done better to make you stay and we'll work on it.", name),
	}
}
