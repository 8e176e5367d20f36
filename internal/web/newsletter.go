package web

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/wolfman30/realestate-site/internal/leads"
)

const (
	newsletterThanks  = "You're in. I send occasionally, not weekly spam."
	newsletterInvalid = "Enter a valid email address."
)

// NewsletterView is the footer signup state.
type NewsletterView struct {
	Done  bool
	Email string
	Error string
}

func newsletterForm(v NewsletterView) g.Node {
	if v.Done {
		return Div(Class("small ok"), Role("status"), g.Text(newsletterThanks))
	}
	return Form(
		Class("newsletter"),
		Method("post"),
		Action("/newsletter"),
		Input(Required(), Type("email"), Name(leads.FieldEmail), Placeholder("you@email.com"),
			Aria("label", "Email for updates"), Value(v.Email),
			g.If(v.Error != "", g.Group([]g.Node{
				Aria("invalid", "true"),
				Aria("describedby", "newsletter-error"),
			})),
		),
		Button(Class("btn btn-ghost"), Type("submit"), g.Text("Join")),
		g.If(v.Error != "", Div(Class("field-error"), ID("newsletter-error"), g.Text(v.Error))),
	)
}
