package leads

import (
	"net/url"
	"strings"
	"time"
)

// Service is the kind of help a visitor asks for.
type Service string

const (
	ServiceSellerValuation    Service = "Seller valuation"
	ServiceBuySideDiscovery   Service = "Buy-side discovery"
	ServiceInvestmentStrategy Service = "Investment strategy"
	ServiceDevelopmentConsult Service = "Development consult"
)

// DefaultService is preselected on the form.
const DefaultService = ServiceSellerValuation

// Services lists the selectable services in display order.
func Services() []Service {
	return []Service{
		ServiceSellerValuation,
		ServiceBuySideDiscovery,
		ServiceInvestmentStrategy,
		ServiceDevelopmentConsult,
	}
}

// ParseService matches s case-insensitively against the known services.
func ParseService(s string) (Service, bool) {
	s = strings.TrimSpace(s)
	for _, svc := range Services() {
		if strings.EqualFold(s, string(svc)) {
			return svc, true
		}
	}
	return "", false
}

// Lead is a captured visitor inquiry. It is never modified after capture.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Service   Service   `json:"service"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// FormInput is the raw, unvalidated contact form payload.
type FormInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Service  string `json:"service"`
	Message  string `json:"message"`
	Source   string `json:"source"`
	BotField string `json:"bot-field"`
	// Token identifies the form instance across resubmits.
	Token string `json:"submission_id"`
}

// Form field names shared by the page, the API and the backend encoders.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldService  = "service"
	FieldMessage  = "message"
	FieldSource   = "source"
	FieldBotField = "bot-field"
	FieldToken    = "submission_id"
)

// FormInputFromValues reads a FormInput out of posted form values.
func FormInputFromValues(v url.Values) FormInput {
	return FormInput{
		Name:     v.Get(FieldName),
		Email:    v.Get(FieldEmail),
		Phone:    v.Get(FieldPhone),
		Service:  v.Get(FieldService),
		Message:  v.Get(FieldMessage),
		Source:   v.Get(FieldSource),
		BotField: v.Get(FieldBotField),
		Token:    v.Get(FieldToken),
	}
}

// IsSpam reports whether the honeypot field was filled in.
func (in FormInput) IsSpam() bool {
	return strings.TrimSpace(in.BotField) != ""
}
