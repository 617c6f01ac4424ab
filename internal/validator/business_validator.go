package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	sessionPattern    = regexp.MustCompile(`^\d{4}/\d{4}$`)
	courseCodePattern = regexp.MustCompile(`^[A-Z]{2,5}\d{3}$`)
)

// BusinessValidator handles request and business rule validation.
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a validator with the domain rules registered.
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// registerBusinessRules registers custom business rule validators.
func (bv *BusinessValidator) registerBusinessRules() {
	// Scores are percentages (0-100)
	bv.validate.RegisterValidation("score_range", func(fl validator.FieldLevel) bool {
		score := fl.Field().Float()
		return score >= 0 && score <= 100
	})

	// Academic session, e.g. 2024/2025; the second year must follow the first
	bv.validate.RegisterValidation("academic_session", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if !sessionPattern.MatchString(s) {
			return false
		}
		parts := strings.Split(s, "/")
		return parts[1] > parts[0]
	})

	// Course code, e.g. CSC101
	bv.validate.RegisterValidation("course_code", func(fl validator.FieldLevel) bool {
		return courseCodePattern.MatchString(fl.Field().String())
	})

	// Student level (100 to 500 in steps of 100)
	bv.validate.RegisterValidation("student_level", func(fl validator.FieldLevel) bool {
		level := fl.Field().Int()
		return level >= 100 && level <= 500 && level%100 == 0
	})
}
