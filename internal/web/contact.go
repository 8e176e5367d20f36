package web

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/wolfman30/realestate-site/internal/leads"
	"github.com/wolfman30/realestate-site/internal/site"
)

// FormView is what the contact section renders: the submission state, the
// visitor's input (kept on failure so nothing has to be retyped) and any
// per-field errors.
type FormView struct {
	State   leads.State
	Input   leads.FormInput
	Errors  []leads.FieldError
	Message string
	// Token ties resubmits of this form to one submission.
	Token string
}

func (f FormView) fieldError(field string) string {
	for _, e := range f.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

func errorNote(f FormView, field string) g.Node {
	msg := f.fieldError(field)
	return g.If(msg != "", Div(Class("field-error"), ID(field+"-error"), g.Text(msg)))
}

func invalidAttr(f FormView, field string) g.Node {
	return g.If(f.fieldError(field) != "", g.Group([]g.Node{
		Aria("invalid", "true"),
		Aria("describedby", field+"-error"),
	}))
}

func serviceSelect(selected string) g.Node {
	if selected == "" {
		selected = string(leads.DefaultService)
	}
	if svc, ok := leads.ParseService(selected); ok {
		selected = string(svc)
	}
	return Select(
		Name(leads.FieldService),
		Aria("label", "Service"),
		g.Map(leads.Services(), func(s leads.Service) g.Node {
			return Option(Value(string(s)), g.If(string(s) == selected, Selected()), g.Text(string(s)))
		}),
	)
}

// disableOnSubmit greys out the button while the browser waits for the post.
const disableOnSubmit = "var b=this.querySelector('button[type=submit]');if(b){b.disabled=true;b.textContent='Sending…'}"

func contactSection(p *site.Profile, f FormView) g.Node {
	in := f.Input
	loading := f.State == leads.StateLoading
	buttonText := "Schedule an intro call"
	if loading {
		buttonText = "Sending…"
	}

	return Section(
		ID("contact"),
		Class("section"),
		Div(
			Class("wrap card grid grid-2"),
			Div(
				Span(Class("pill"), g.Text("Start the conversation")),
				H2(g.Text("Let's map out your move.")),
				P(Class("muted"), g.Text("Whether you're a trustee, a first-time seller, or an investor repositioning a property, we start with one clean call and a simple action plan.")),
				P(g.Text("Email: "), A(Href("mailto:"+p.Agent.Email), g.Text(p.Agent.Email))),
				P(g.Text("Phone: "), A(Href(p.Agent.TelURI()), g.Text(p.Agent.PhoneDisplay))),
			),
			Div(
				Form(
					Class("form"),
					Name("contact"),
					Method("post"),
					Action("/contact"),
					g.Attr("data-netlify", "true"),
					g.Attr("netlify-honeypot", leads.FieldBotField),
					g.Attr("onsubmit", disableOnSubmit),
					Input(Type("hidden"), Name("form-name"), Value("contact")),
					Input(Type("hidden"), Name(leads.FieldToken), Value(f.Token)),
					P(Class("honeypot"), Aria("hidden", "true"),
						Label(g.Text("Don't fill this out: "),
							Input(Name(leads.FieldBotField), TabIndex("-1"), AutoComplete("off")),
						),
					),
					Input(Type("hidden"), Name(leads.FieldSource), Value("Contact form")),
					Input(Required(), Name(leads.FieldName), Placeholder("Full name"), AutoComplete("name"),
						Value(in.Name), invalidAttr(f, leads.FieldName)),
					errorNote(f, leads.FieldName),
					Input(Required(), Type("email"), Name(leads.FieldEmail), Placeholder("Email"), AutoComplete("email"),
						Value(in.Email), invalidAttr(f, leads.FieldEmail)),
					errorNote(f, leads.FieldEmail),
					Input(Name(leads.FieldPhone), Type("tel"), Placeholder("Phone (optional)"), AutoComplete("tel"),
						Value(in.Phone), invalidAttr(f, leads.FieldPhone)),
					errorNote(f, leads.FieldPhone),
					serviceSelect(in.Service),
					errorNote(f, leads.FieldService),
					Textarea(Required(), Name(leads.FieldMessage), Rows("4"),
						Placeholder("Tell me about the property, timing, and any constraints."),
						invalidAttr(f, leads.FieldMessage), g.Text(in.Message)),
					errorNote(f, leads.FieldMessage),
					Button(Class("btn"), Type("submit"), g.If(loading, Disabled()), g.Text(buttonText)),
				),
				statusNote(f),
				P(
					Class("small"),
					A(Class("btn btn-ghost"), Href("/sitemap.xml?download=1"), g.Text("Download sitemap.xml")),
					g.Text(" "),
					A(Class("btn btn-ghost"), Href("/robots.txt?download=1"), g.Text("Download robots.txt")),
				),
			),
		),
	)
}

func statusNote(f FormView) g.Node {
	switch f.State {
	case leads.StateSuccess:
		return Div(Class("small ok"), Role("status"), g.Text(orDefault(f.Message, leads.SuccessMessage)))
	case leads.StateError:
		return Div(Class("small fail"), Role("alert"), g.Text(orDefault(f.Message, leads.RetryMessage)))
	case leads.StateLoading:
		return Div(Class("small muted"), Role("status"), g.Text(orDefault(f.Message, leads.InFlightMessage)))
	default:
		return nil
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
