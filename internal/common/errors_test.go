package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "user error", err: NewUserError("no goal with id 7", ErrNotFound), want: "no goal with id 7"},
		{name: "wrapped user error", err: fmt.Errorf("outer: %w", NewUserError("bad", nil)), want: "bad"},
		{name: "duplicate", err: fmt.Errorf("insert: %w", ErrDuplicateEntry), want: "already exists"},
		{name: "constraint", err: ErrConstraintViolation, want: "rejected by a data constraint"},
		{name: "not found", err: ErrNotFound, want: "not found"},
		{name: "invalid input", err: ErrInvalidInput, want: "invalid input"},
		{name: "schema", err: fmt.Errorf("%w: step 2", ErrSchema), want: "database could not be initialized"},
		{name: "unknown", err: errors.New("disk on fire"), want: "something went wrong, please retry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.err))
		})
	}
}

func TestDuplicateIsConstraintViolation(t *testing.T) {
	assert.ErrorIs(t, ErrDuplicateEntry, ErrConstraintViolation)
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not save", ErrNotFound)
	assert.Equal(t, "could not save: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "plain", NewUserError("plain", nil).Error())
}
