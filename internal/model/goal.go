package model

import "time"

// Goal is a savings target that accumulates funds over time.
type Goal struct {
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Deadline      string    `json:"deadline"`
	Icon          string    `json:"icon,omitempty"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
}

// Progress is the share of the target saved so far, capped at 100.
func (g Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return min(g.CurrentAmount/g.TargetAmount*100, 100)
}

// Reached reports whether the target has been met.
func (g Goal) Reached() bool {
	return g.CurrentAmount >= g.TargetAmount
}

// GoalInput holds the fields required to create a goal.
type GoalInput struct {
	Title         string  `json:"title" validate:"required,max=100"`
	Deadline      string  `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Icon          string  `json:"icon,omitempty"`
	TargetAmount  float64 `json:"targetAmount" validate:"gt=0"`
	CurrentAmount float64 `json:"currentAmount" validate:"gte=0"`
}

// GoalPatch lists the goal fields to change.
type GoalPatch struct {
	Title         *string
	TargetAmount  *float64
	CurrentAmount *float64
	Deadline      *string
	Icon          *string
}
