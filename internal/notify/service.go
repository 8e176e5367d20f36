package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/wolfman30/realestate-site/internal/leads"
	"github.com/wolfman30/realestate-site/pkg/logging"
)

const leadTimeLayout = "Monday, January 2, 2006 at 3:04 PM MST"

// Service tells the agent about new leads by email.
type Service struct {
	email     EmailSender
	recipient string
	logger    *logging.Logger
}

// NewService creates a notification service. An empty recipient disables it.
func NewService(email EmailSender, recipient string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:     email,
		recipient: strings.TrimSpace(recipient),
		logger:    logger,
	}
}

// NotifyNewLead emails the agent the lead's details, with reply-to set to
// the visitor so a reply goes straight back to them.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead) error {
	if lead == nil {
		return errors.New("notify: nil lead")
	}
	if s.email == nil || s.recipient == "" {
		s.logger.Debug("notify: email not configured, skipping new lead notification", "id", lead.ID)
		return nil
	}

	html, err := renderLeadHTML(lead)
	if err != nil {
		return fmt.Errorf("notify: render lead email: %w", err)
	}

	msg := EmailMessage{
		To:      s.recipient,
		ReplyTo: lead.Email,
		Subject: fmt.Sprintf("New lead: %s (%s)", lead.Name, lead.Service),
		Body:    leadText(lead),
		HTML:    html,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send new lead email: %w", err)
	}
	s.logger.Info("notify: new lead email sent", "id", lead.ID, "to", s.recipient)
	return nil
}

func leadText(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	if lead.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", lead.Phone)
	}
	fmt.Fprintf(&b, "Service: %s\n", lead.Service)
	fmt.Fprintf(&b, "Source: %s\n", lead.Source)
	fmt.Fprintf(&b, "Received: %s\n\n", lead.Timestamp.Format(leadTimeLayout))
	b.WriteString(lead.Message)
	b.WriteString("\n")
	return b.String()
}

func renderLeadHTML(lead *leads.Lead) (string, error) {
	row := func(label, value string) g.Node {
		return g.If(value != "", Tr(Th(g.Text(label)), Td(g.Text(value))))
	}
	doc := Div(
		H2(g.Text("New website inquiry")),
		Table(
			row("Name", lead.Name),
			row("Email", lead.Email),
			row("Phone", lead.Phone),
			row("Service", string(lead.Service)),
			row("Source", lead.Source),
			row("Received", lead.Timestamp.Format(leadTimeLayout)),
		),
		P(g.Attr("style", "white-space:pre-wrap"), g.Text(lead.Message)),
	)
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var _ leads.Notifier = (*Service)(nil)
