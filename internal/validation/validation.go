// Package validation checks caller input before it reaches the store.
// Rules are declared as `validate` struct tags on the model input types.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
)

// FieldError describes one failed rule. Field uses the JSON name of the field.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (f FieldError) String() string {
	switch f.Tag {
	case "required":
		return f.Field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f.Field, f.Param)
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", f.Field, f.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", f.Field, f.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", f.Field, f.Param)
	case "email":
		return f.Field + " must be a valid email address"
	case "hexcolor":
		return f.Field + " must be a hex color"
	case "datetime":
		return fmt.Sprintf("%s must be a date in the form %s", f.Field, f.Param)
	case "currency_code":
		return f.Field + " must be a supported currency code"
	default:
		return fmt.Sprintf("%s failed %s", f.Field, f.Tag)
	}
}

// Error lists every rule an input failed. It matches common.ErrInvalidInput.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.String()
	}
	return strings.Join(messages, "; ")
}

// Unwrap ties validation failures into the error taxonomy.
func (e *Error) Unwrap() error {
	return common.ErrInvalidInput
}

// Validator validates model inputs.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the ledger's custom rules registered.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
		return model.CurrencyCode(fl.Field().String()).Valid()
	})

	return &Validator{validate: v}
}

// Struct validates input against its struct tags.
func (v *Validator) Struct(input any) error {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// Amount checks a standalone amount, such as the funds added to a goal.
func (v *Validator) Amount(amount float64) error {
	if err := v.validate.Var(amount, "gt=0"); err != nil {
		return &Error{Fields: []FieldError{{Field: "amount", Tag: "gt", Param: "0"}}}
	}
	return nil
}
