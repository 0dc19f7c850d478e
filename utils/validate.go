package utils

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks v against its `validate` tags and returns a ValidationError
// listing one message per failing field.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	var verrs ValidationErrors
	for _, fe := range fieldErrs {
		verrs.Add("%s", fieldMessage(fe))
	}
	return verrs.Err()
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return "Please add a " + field
	case "max":
		if fe.Kind() == reflect.String {
			return field + " can not be more than " + fe.Param() + " characters"
		}
		return field + " can not be more than " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return field + " must be at least " + fe.Param() + " characters"
		}
		return field + " must be at least " + fe.Param()
	case "gt", "gte", "lt", "lte":
		return field + " is out of range"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "email":
		return "Please add a valid email"
	case "gtfield":
		return field + " must be after " + fe.Param()
	default:
		return field + " is invalid"
	}
}
