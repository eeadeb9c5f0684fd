package domain

import "time"

// Message is a piece of anonymous feedback left for a user. It carries no
// sender information of any kind.
type Message struct {
	ID         string
	Content    string
	ReceiverID string
	IsRead     bool
	CreatedAt  time.Time
}
