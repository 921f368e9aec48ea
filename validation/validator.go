// Package validation checks decoded request payloads and reports failures as
// field-level validation errors.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

// Checker is implemented by payloads with rules that span several fields.
// It returns field -> message for every failure.
type Checker interface {
	Check() map[string]string
}

type Validator struct {
	validate *validator.Validate
}

// New builds a validator that reports JSON field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerRules(v)

	return &Validator{validate: v}
}

// Struct validates tags first and then any Checker rules. All failures are
// collected into one validation error.
func (v *Validator) Struct(i interface{}) error {
	fields := make(map[string]string)

	if err := v.validate.Struct(i); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return errs.NewBadRequestError(err.Error())
		}
		for _, fe := range validationErrors {
			fields[fieldPath(fe.Namespace())] = message(fe)
		}
	}

	if c, ok := i.(Checker); ok {
		for field, msg := range c.Check() {
			if _, exists := fields[field]; !exists {
				fields[field] = msg
			}
		}
	}

	if len(fields) > 0 {
		return errs.NewValidationError(fields)
	}
	return nil
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// fieldPath turns "input.items[2].id" into "items.2.id".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("Must be at least %s items/characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("Must be at most %s items/characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url", "http_url":
		return "Must be a valid URL"
	case "slug":
		return "Must contain only lowercase letters, numbers and dashes"
	case "project_status":
		return "Must be one of: draft, in_progress, completed, archived"
	case "message_status":
		return "Must be one of: new, read, replied, archived"
	case "employment_type":
		return "Must be a known employment type"
	case "hexcolor":
		return "Must be a hex color"
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}
