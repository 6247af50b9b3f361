// Package service implements the marketplace operations on top of the
// repositories.  Every exported method runs as one transaction and
// returns *apperr.Error values only.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/artist-booking/internal/apperr"
	"github.com/iliyamo/artist-booking/internal/repository"
)

// TxRunner runs fn inside a single transaction.  *repository.Store
// implements it.
type TxRunner interface {
	Tx(ctx context.Context, fn func(r repository.Repos) error) error
}

// newValidator reports fields under their JSON names so messages match
// the request payload.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// invalid converts a validator failure into an InvalidArgument error
// naming the first offending field.
func invalid(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return apperr.Wrap(apperr.InvalidArgument, "invalid input", err)
	}
	return apperr.New(apperr.InvalidArgument, fieldMessage(ves[0], ves[0].Field()))
}

// checkVar validates a single value against tag, reporting it as field.
func checkVar(v *validator.Validate, field string, value any, tag string) error {
	err := v.Var(value, tag)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return apperr.Wrap(apperr.InvalidArgument, "invalid "+field, err)
	}
	return apperr.New(apperr.InvalidArgument, fieldMessage(ves[0], field))
}

func fieldMessage(fe validator.FieldError, field string) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

// classify turns anything that is not already an *apperr.Error into an
// Internal (or Unavailable) error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Wrap(apperr.Internal, "storage failure", err)
}

// notFound maps repository.ErrNotFound to a NotFound error with msg and
// classifies everything else.
func notFound(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.New(apperr.NotFound, msg)
	}
	return classify(err)
}
