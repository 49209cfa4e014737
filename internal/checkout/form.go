// Package checkout turns a cart and a customer form into an order on the API.
package checkout

import (
	"strings"
)

// MissingContactMessage is shown when a required contact field is blank.
const MissingContactMessage = "Name, email, and phone number are required to reserve your order."

// Form is the customer information collected at checkout.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	Note    string `json:"note,omitempty"`
}

// FieldError reports a form field that must be fixed before submitting.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Trimmed returns a copy of f with surrounding whitespace removed.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Address: strings.TrimSpace(f.Address),
		Note:    strings.TrimSpace(f.Note),
	}
}

// Validate checks the contact fields, reporting the first blank one.
func (f Form) Validate() error {
	t := f.Trimmed()
	for _, field := range []struct{ name, value string }{
		{"name", t.Name},
		{"email", t.Email},
		{"phone", t.Phone},
	} {
		if field.value == "" {
			return &FieldError{Field: field.name, Message: MissingContactMessage}
		}
	}
	return nil
}
