package leads

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func validInput() FormInput {
	return FormInput{
		Name:    "Jane Seller",
		Email:   "jane@example.com",
		Phone:   "(619) 555-0100",
		Service: "Investment strategy",
		Message: "Thinking about selling a duplex in North Park.",
	}
}

func TestValidateBuildsLead(t *testing.T) {
	in := validInput()
	in.Name = "  Jane Seller  "
	in.Service = "investment STRATEGY"

	result := Validate(in, "Contact form")
	if !result.Valid() {
		t.Fatalf("expected valid result, got %v", result.Errors)
	}
	if result.Err() != nil {
		t.Fatalf("expected nil error, got %v", result.Err())
	}
	lead := result.Lead
	if lead.Name != "Jane Seller" {
		t.Errorf("expected trimmed name, got %q", lead.Name)
	}
	if lead.Service != ServiceInvestmentStrategy {
		t.Errorf("expected canonical service, got %q", lead.Service)
	}
	if lead.Source != "Contact form" {
		t.Errorf("expected default source, got %q", lead.Source)
	}
	if lead.ID != "" || !lead.Timestamp.IsZero() {
		t.Errorf("validation must not assign id or timestamp")
	}
}

func TestValidateDefaults(t *testing.T) {
	in := validInput()
	in.Service = ""
	in.Phone = ""
	in.Source = "LeadCapture modal"

	result := Validate(in, "Contact form")
	if !result.Valid() {
		t.Fatalf("expected valid result, got %v", result.Errors)
	}
	if result.Lead.Service != DefaultService {
		t.Errorf("expected default service, got %q", result.Lead.Service)
	}
	if result.Lead.Source != "LeadCapture modal" {
		t.Errorf("expected payload source to win, got %q", result.Lead.Source)
	}
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FormInput)
		field  string
	}{
		{"missing name", func(in *FormInput) { in.Name = "   " }, FieldName},
		{"long name", func(in *FormInput) { in.Name = strings.Repeat("a", maxNameLen+1) }, FieldName},
		{"missing email", func(in *FormInput) { in.Email = "" }, FieldEmail},
		{"email without at", func(in *FormInput) { in.Email = "jane.example.com" }, FieldEmail},
		{"email without dotted domain", func(in *FormInput) { in.Email = "jane@localhost" }, FieldEmail},
		{"email with display name", func(in *FormInput) { in.Email = "Jane <jane@example.com>" }, FieldEmail},
		{"phone with letters", func(in *FormInput) { in.Phone = "call me maybe" }, FieldPhone},
		{"phone too short", func(in *FormInput) { in.Phone = "555" }, FieldPhone},
		{"unknown service", func(in *FormInput) { in.Service = "Mortgage" }, FieldService},
		{"missing message", func(in *FormInput) { in.Message = "\n\t" }, FieldMessage},
		{"long message", func(in *FormInput) { in.Message = strings.Repeat("m", maxMessageLen+1) }, FieldMessage},
		{"long source", func(in *FormInput) { in.Source = strings.Repeat("s", maxSourceLen+1) }, FieldSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			result := Validate(in, "Contact form")
			if result.Valid() {
				t.Fatalf("expected invalid result")
			}
			if result.Lead != nil {
				t.Fatalf("invalid result must not carry a lead")
			}
			if result.FieldMessage(tt.field) == "" {
				t.Fatalf("expected error on %s, got %v", tt.field, result.Errors)
			}
			if !errors.Is(result.Err(), ErrInvalidLead) {
				t.Fatalf("expected ErrInvalidLead, got %v", result.Err())
			}
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	result := Validate(FormInput{}, "")
	if len(result.Errors) != 3 {
		t.Fatalf("expected name, email and message errors, got %v", result.Errors)
	}
	for _, field := range []string{FieldName, FieldEmail, FieldMessage} {
		if result.FieldMessage(field) == "" {
			t.Errorf("expected error for %s", field)
		}
	}
}

func TestFormInputFromValues(t *testing.T) {
	v := url.Values{}
	v.Set("name", "A")
	v.Set("email", "a@b.co")
	v.Set("service", "Development consult")
	v.Set("bot-field", "gotcha")

	in := FormInputFromValues(v)
	if in.Name != "A" || in.Email != "a@b.co" || in.Service != "Development consult" {
		t.Fatalf("unexpected input %+v", in)
	}
	if !in.IsSpam() {
		t.Fatal("expected filled honeypot to be spam")
	}
	if validInput().IsSpam() {
		t.Fatal("expected empty honeypot not to be spam")
	}
}

func TestParseService(t *testing.T) {
	for _, svc := range Services() {
		got, ok := ParseService(" " + strings.ToUpper(string(svc)) + " ")
		if !ok || got != svc {
			t.Fatalf("expected %q to parse, got %q/%v", svc, got, ok)
		}
	}
	if _, ok := ParseService("Property management"); ok {
		t.Fatal("expected unknown service to be rejected")
	}
}
