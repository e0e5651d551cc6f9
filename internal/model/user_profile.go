package model

import "time"

// UserProfileID is the fixed identifier of the single profile row.
const UserProfileID = "profile"

// UserProfile describes the owner of the ledger. There is exactly one.
type UserProfile struct {
	CreatedAt time.Time    `json:"createdAt"`
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Currency  CurrencyCode `json:"currency"`
}

// UserProfileInput holds the fields required to create the profile.
type UserProfileInput struct {
	Name     string       `json:"name" validate:"required,max=100"`
	Email    string       `json:"email" validate:"required,email"`
	Currency CurrencyCode `json:"currency" validate:"required,currency_code"`
}

// UserProfilePatch lists the profile fields to change.
type UserProfilePatch struct {
	Name     *string
	Email    *string
	Currency *CurrencyCode
}
