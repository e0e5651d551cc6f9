package model

// PaymentMethod is the instrument a transaction was paid with.
// At most one payment method is the default at any time.
type PaymentMethod struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	IsDefault bool   `json:"isDefault"`
}

// PaymentMethodInput holds the fields required to create a payment method.
type PaymentMethodInput struct {
	Name      string `json:"name" validate:"required,max=50"`
	Icon      string `json:"icon" validate:"required"`
	IsDefault bool   `json:"isDefault"`
}

// PaymentMethodPatch lists the payment method fields to change.
type PaymentMethodPatch struct {
	Name      *string
	Icon      *string
	IsDefault *bool
}
