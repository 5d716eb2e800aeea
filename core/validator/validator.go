package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// fieldName reports fields by the key they are written with in config and
// schema files.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"yaml", "mapstructure", "json"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(fieldName)
	})
	return validate
}

func ValidateStruct(f interface{}) error {
	return checkError(getValidator().Struct(f))
}

func ValidateOneOf(value string, enums ...string) error {
	tags := "omitempty,oneof=" + strings.Join(enums, " ")
	return checkError(getValidator().Var(value, tags))
}

func checkError(err error) error {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, message(e))
	}
	return errors.New(strings.Join(msgs, " and "))
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "oneof":
		msg := fmt.Sprintf("error value \"%v\"", e.Value())
		if e.Field() != "" {
			msg += fmt.Sprintf(" for key \"%s\"", e.Field())
		}
		return msg + fmt.Sprintf(" not recognized, only support \"%s\"", e.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be less than %s", e.Field(), e.Param())
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s", e.Field(), e.Param())
	case "url":
		return fmt.Sprintf("%s must be an absolute URL", e.Field())
	}
	return e.Error()
}
