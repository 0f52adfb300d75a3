package models

import "time"

// User represents a registered customer.
type User struct {
	ID                       string     `json:"id"`
	FirstName                string     `json:"firstName"`
	LastName                 string     `json:"lastName"`
	Email                    string     `json:"email"`
	PasswordHash             string     `json:"passwordHash"`
	CreatedAt                time.Time  `json:"createdAt"`
	EmailVerified            bool       `json:"emailVerified"`
	EmailVerificationToken   *string    `json:"emailVerificationToken"`
	EmailVerificationExpires *time.Time `json:"emailVerificationExpires"`
}

// PublicUser is the subset of User returned to clients.
type PublicUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Public strips credentials and verification state.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}
