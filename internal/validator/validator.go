package validator

// Validator is the validation entry point shared by the services layer. It
// wraps struct tag validation and the domain business rules.
type Validator struct {
	business *BusinessValidator
}

func New() *Validator {
	return &Validator{business: NewBusinessValidator()}
}

// Validate validates a request struct and returns nil when it passes.
func (v *Validator) Validate(s interface{}) error {
	if errors := v.business.Validate(s); len(errors) > 0 {
		return errors
	}
	return nil
}

// GetBusinessValidator exposes the underlying business validator for rules
// that need more than struct tags.
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}
