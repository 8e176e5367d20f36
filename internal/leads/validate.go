package leads

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLen    = 200
	maxEmailLen   = 254
	maxPhoneLen   = 40
	maxMessageLen = 5000
	maxSourceLen  = 100
)

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationResult is either a valid Lead or the list of field errors that
// prevented one from being built.
type ValidationResult struct {
	Lead   *Lead
	Errors []FieldError
}

// Valid reports whether the input produced a lead.
func (r ValidationResult) Valid() bool {
	return r.Lead != nil && len(r.Errors) == 0
}

// Err returns nil for a valid result, otherwise an error wrapping ErrInvalidLead.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Errorf("%w: %s", ErrInvalidLead, strings.Join(msgs, "; "))
}

// FieldMessage returns the error message for field, if any.
func (r ValidationResult) FieldMessage(field string) string {
	for _, fe := range r.Errors {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Validate checks a raw form payload and builds the Lead it describes.
// defaultSource tags leads whose payload carries no source of its own.
// The returned lead has no ID or Timestamp; those are assigned on capture.
func Validate(in FormInput, defaultSource string) ValidationResult {
	var errs []FieldError
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		add(FieldName, "Name is required.")
	case utf8.RuneCountInString(name) > maxNameLen:
		add(FieldName, "Name is too long.")
	}

	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		add(FieldEmail, "Email is required.")
	case len(email) > maxEmailLen || !validEmail(email):
		add(FieldEmail, "Enter a valid email address.")
	}

	phone := strings.TrimSpace(in.Phone)
	if phone != "" && (len(phone) > maxPhoneLen || !validPhone(phone)) {
		add(FieldPhone, "Enter a valid phone number.")
	}

	service := DefaultService
	if raw := strings.TrimSpace(in.Service); raw != "" {
		svc, ok := ParseService(raw)
		if !ok {
			add(FieldService, "Choose one of the listed services.")
		}
		service = svc
	}

	message := strings.TrimSpace(in.Message)
	switch {
	case message == "":
		add(FieldMessage, "Tell me a little about what you need.")
	case utf8.RuneCountInString(message) > maxMessageLen:
		add(FieldMessage, "Message is too long.")
	}

	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = defaultSource
	}
	if utf8.RuneCountInString(source) > maxSourceLen {
		add(FieldSource, "Source tag is too long.")
	}

	if len(errs) > 0 {
		return ValidationResult{Errors: errs}
	}
	return ValidationResult{Lead: &Lead{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Service: service,
		Message: message,
		Source:  source,
	}}
}

// validEmail accepts a bare address with a dotted domain, the shape an
// <input type="email"> enforces.
// IsEmail reports whether s, ignoring surrounding space, has a deliverable
// address shape.
func IsEmail(s string) bool {
	return validEmail(strings.TrimSpace(s))
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

func validPhone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == '(' || r == ')' || r == '.' || r == ' ':
		default:
			return false
		}
	}
	return digits >= 7
}
