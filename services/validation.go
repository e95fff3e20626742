package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/inkwell/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// validateInput checks a tagged struct and reports the first failing field as
// a validation error, using messages[field] when present.
func validateInput(input any, messages map[string]string) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		return errs.NewBadRequestError(err.Error())
	}

	first := vErrs[0]
	if msg, ok := messages[first.Field()]; ok {
		return errs.NewValidationError(first.Field(), msg)
	}
	return errs.NewValidationError(first.Field(), first.Field()+" failed the "+first.Tag()+" rule")
}
