package models

import "time"

// Chat message senders
const (
	ChatSenderCustomer  = "customer"
	ChatSenderStaff     = "staff"
	ChatSenderAssistant = "assistant"
)

// ChatMessage is the model for the 'chat_messages' table. A conversation
// belongs to either a registered user or a guest session, mirroring carts.
type ChatMessage struct {
	ID        int64     `json:"id" db:"id"`
	UserID    *int64    `json:"userId,omitempty" db:"user_id"`
	SessionID *string   `json:"sessionId,omitempty" db:"session_id"`
	Sender    string    `json:"sender" db:"sender"` // customer | staff | assistant
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
