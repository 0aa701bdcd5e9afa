package leads

import (
	"fmt"
	"regexp"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// E.164: optional plus, no leading zero, at most 15 digits
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// ValidationError describes the first check a lead failed
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validator checks inbound leads before they are sent upstream.
//
// In strict mode matter_description is required and contact_email and
// contact_phone must be well formed. Lenient mode only checks presence of the
// contact fields and the contact type.
type Validator struct {
	Strict bool
}

// NewValidator returns a Validator in the given mode
func NewValidator(strict bool) *Validator {
	return &Validator{Strict: strict}
}

// Validate returns nil for an acceptable record or a *ValidationError for the
// first failed check
func (v *Validator) Validate(record *Record) error {
	if record == nil {
		return &ValidationError{Reason: "Missing lead data"}
	}

	fields := record.contactFields()
	if v.Strict {
		fields = append(fields, field{"matter_description", record.MatterDescription})
	}

	for _, f := range fields {
		if f.value == "" {
			return &ValidationError{Field: f.name, Reason: fmt.Sprintf("Missing required field: %s", f.name)}
		}
	}

	if record.ContactType != ContactPerson && record.ContactType != ContactCompany {
		return &ValidationError{
			Field:  "contact_type",
			Reason: fmt.Sprintf("Invalid contact type: %s (expected %s or %s)", record.ContactType, ContactPerson, ContactCompany),
		}
	}

	if !v.Strict {
		return nil
	}

	if !emailPattern.MatchString(record.ContactEmail) {
		return &ValidationError{Field: "contact_email", Reason: fmt.Sprintf("Invalid email format: %s", record.ContactEmail)}
	}

	if !phonePattern.MatchString(record.ContactPhone) {
		return &ValidationError{Field: "contact_phone", Reason: fmt.Sprintf("Invalid phone format: %s", record.ContactPhone)}
	}

	return nil
}
