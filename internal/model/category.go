package model

// TransactionType classifies money flowing in or out. Categories carry the
// same type so that a category only ever groups one direction of flow.
type TransactionType string

const (
	// TransactionTypeIncome represents money received.
	TransactionTypeIncome TransactionType = "income"
	// TransactionTypeExpense represents money spent.
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Category groups transactions of a single type.
type Category struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	Color     string          `json:"color"`
	Type      TransactionType `json:"type"`
	IsDefault bool            `json:"isDefault"`
}

// CategoryInput holds the fields required to create a category.
type CategoryInput struct {
	Name      string          `json:"name" validate:"required,max=50"`
	Icon      string          `json:"icon" validate:"required"`
	Color     string          `json:"color" validate:"required,hexcolor"`
	Type      TransactionType `json:"type" validate:"required,oneof=income expense"`
	IsDefault bool            `json:"isDefault"`
}

// CategoryPatch lists the category fields to change. Nil fields are left untouched.
type CategoryPatch struct {
	Name      *string
	Icon      *string
	Color     *string
	Type      *TransactionType
	IsDefault *bool
}
