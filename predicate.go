package settle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Predicate decides whether a value is acceptable. It may block (for example on
// a network lookup) and should honor ctx cancellation. A returned error is
// treated as a failed validation and never reaches callers of the Validator.
type Predicate[T any] func(ctx context.Context, value T) (bool, error)

// Sync adapts a synchronous check into a Predicate.
func Sync[T any](fn func(T) bool) Predicate[T] {
	return func(_ context.Context, value T) (bool, error) {
		return fn(value), nil
	}
}

// validate is the shared validator instance.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// duration accepts an empty string or anything time.ParseDuration accepts.
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool { //nolint:errcheck // tag name is static
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.ParseDuration(s)
		return err == nil
	})
	return v
}

// Tag returns a Predicate that checks a single value against go-playground
// validator tags, e.g. Tag[string]("required,email").
//
// A value that violates the tags is reported as false. An unknown tag is a
// predicate failure.
func Tag[T any](tag string) Predicate[T] {
	return func(ctx context.Context, value T) (bool, error) {
		if err := validate.VarCtx(ctx, value, tag); err != nil {
			var invalid *validator.InvalidValidationError
			if errors.As(err, &invalid) {
				return false, fmt.Errorf("tag %q: %w", tag, err)
			}
			return false, nil
		}
		return true, nil
	}
}

// Struct returns a Predicate that checks a struct value against the validate
// tags on its fields.
//
//	type Signup struct {
//	    Email string `validate:"required,email"`
//	    Age   int    `validate:"gte=13"`
//	}
//
//	v := settle.New[Signup](settle.Struct[Signup]())
func Struct[T any]() Predicate[T] {
	return func(ctx context.Context, value T) (bool, error) {
		if err := validate.StructCtx(ctx, value); err != nil {
			var invalid *validator.InvalidValidationError
			if errors.As(err, &invalid) {
				return false, fmt.Errorf("struct %T: %w", value, err)
			}
			return false, nil
		}
		return true, nil
	}
}
