package models

import "time"

// NewsletterSubscriber is a newsletter sign-up.
type NewsletterSubscriber struct {
	ID                string          `json:"id"`
	Email             string          `json:"email"`
	Preferences       map[string]bool `json:"preferences"`
	SubscribedAt      time.Time       `json:"subscribedAt"`
	IsActive          bool            `json:"isActive"`
	ConfirmationToken *string         `json:"confirmationToken"`
	IsConfirmed       bool            `json:"isConfirmed"`
	ConfirmedAt       *time.Time      `json:"confirmedAt"`
}

// DefaultNewsletterPreferences returns the topics a new subscriber receives.
func DefaultNewsletterPreferences() map[string]bool {
	return map[string]bool{
		"newProducts":  true,
		"promotions":   true,
		"lightingTips": true,
	}
}

// NewsletterStats summarizes the subscriber list.
type NewsletterStats struct {
	TotalSubscribers     int                    `json:"totalSubscribers"`
	ActiveSubscribers    int                    `json:"activeSubscribers"`
	ConfirmedSubscribers int                    `json:"confirmedSubscribers"`
	PendingConfirmation  int                    `json:"pendingConfirmation"`
	RecentSubscriptions  []NewsletterSubscriber `json:"recentSubscriptions"`
}
