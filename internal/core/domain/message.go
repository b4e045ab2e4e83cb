package domain

import "time"

// ContactMessage is an inbound message submitted through the public
// contact form and triaged in the admin inbox.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Subject   *string
	Body      string
	Read      bool
	CreatedAt time.Time
}
