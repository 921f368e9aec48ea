package validation

import (
	"log"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func registerRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("slug", validateSlug)
	mustRegister("project_status", validateProjectStatus)
	mustRegister("message_status", validateMessageStatus)
	mustRegister("employment_type", validateEmploymentType)
}

// Empty values pass every rule below; 'required' covers presence.

func validateSlug(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || slugPattern.MatchString(value)
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.ProjectStatus(value).Valid()
}

func validateMessageStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.MessageStatus(value).Valid()
}

func validateEmploymentType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	for _, t := range models.EmploymentTypes {
		if t == value {
			return true
		}
	}
	return false
}
