package leads

import (
	"net/url"
	"strings"
)

// FormEncoder turns a lead into the URL-encoded payload a hosted form
// backend expects and names where to post it.
type FormEncoder interface {
	Endpoint() string
	Encode(lead *Lead) url.Values
}

// NetlifyEncoder targets Netlify Forms. Netlify routes a post by the
// form-name discriminator and drops submissions whose honeypot is filled.
type NetlifyEncoder struct {
	endpoint string
	formName string
}

// NewNetlifyEncoder posts to endpoint (normally the site origin plus "/")
// as the form named formName.
func NewNetlifyEncoder(endpoint, formName string) (*NetlifyEncoder, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, ErrMissingEndpoint
	}
	if formName == "" {
		formName = "contact"
	}
	return &NetlifyEncoder{endpoint: endpoint, formName: formName}, nil
}

func (e *NetlifyEncoder) Endpoint() string { return e.endpoint }

func (e *NetlifyEncoder) Encode(lead *Lead) url.Values {
	v := leadValues(lead)
	v.Set("form-name", e.formName)
	v.Set(FieldBotField, "")
	return v
}

// FormSubmitEncoder targets FormSubmit's AJAX endpoint for an inbox address.
type FormSubmitEncoder struct {
	endpoint string
	subject  string
}

const formSubmitBase = "https://formsubmit.co/ajax/"

// NewFormSubmitEncoder posts to FormSubmit for address. A non-empty
// endpoint overrides the hosted URL.
func NewFormSubmitEncoder(address, endpoint, subject string) (*FormSubmitEncoder, error) {
	if endpoint == "" {
		if strings.TrimSpace(address) == "" {
			return nil, ErrMissingEndpoint
		}
		endpoint = formSubmitBase + url.PathEscape(strings.TrimSpace(address))
	}
	if subject == "" {
		subject = "New website inquiry"
	}
	return &FormSubmitEncoder{endpoint: endpoint, subject: subject}, nil
}

func (e *FormSubmitEncoder) Endpoint() string { return e.endpoint }

func (e *FormSubmitEncoder) Encode(lead *Lead) url.Values {
	v := leadValues(lead)
	v.Set("_subject", e.subject)
	v.Set("_captcha", "false")
	v.Set("_honey", "")
	return v
}

func leadValues(lead *Lead) url.Values {
	v := url.Values{}
	v.Set(FieldName, lead.Name)
	v.Set(FieldEmail, lead.Email)
	v.Set(FieldPhone, lead.Phone)
	v.Set(FieldService, string(lead.Service))
	v.Set(FieldMessage, lead.Message)
	v.Set(FieldSource, lead.Source)
	return v
}
