package model

import "time"

// DateLayout is the calendar-date format transactions are recorded in.
// Dates compare correctly as plain strings in this layout.
const DateLayout = "2006-01-02"

// Transaction is a single income or expense entry.
type Transaction struct {
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	ID              string          `json:"id"`
	Type            TransactionType `json:"type"`
	CategoryID      string          `json:"categoryId"`
	Date            string          `json:"date"`
	Note            string          `json:"note"`
	PaymentMethodID string          `json:"paymentMethodId"`
	Amount          float64         `json:"amount"`
}

// TransactionWithCategory is a transaction joined with its category's display fields.
// The category fields are empty when the category no longer exists.
type TransactionWithCategory struct {
	CategoryName  string `json:"categoryName"`
	CategoryIcon  string `json:"categoryIcon"`
	CategoryColor string `json:"categoryColor"`
	Transaction
}

// TransactionInput holds the fields required to record a transaction.
type TransactionInput struct {
	Type            TransactionType `json:"type" validate:"required,oneof=income expense"`
	CategoryID      string          `json:"categoryId" validate:"required"`
	Date            string          `json:"date" validate:"required,datetime=2006-01-02"`
	Note            string          `json:"note"`
	PaymentMethodID string          `json:"paymentMethodId" validate:"required"`
	Amount          float64         `json:"amount" validate:"gt=0"`
}

// TransactionPatch lists the transaction fields to change.
type TransactionPatch struct {
	Type            *TransactionType
	Amount          *float64
	CategoryID      *string
	Date            *string
	Note            *string
	PaymentMethodID *string
}
