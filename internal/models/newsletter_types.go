package models

import "time"

// NewsletterSubscriber is the model for the 'newsletter_subscribers' table.
type NewsletterSubscriber struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	SubscribedAt time.Time  `json:"subscribedAt" db:"subscribed_at"`
	Unsubscribed *time.Time `json:"unsubscribedAt,omitempty" db:"unsubscribed_at"`
}
