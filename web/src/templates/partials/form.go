package partials

import (
	"github.com/nfrund/stucruum/internal/domain"
	dto "github.com/nfrund/stucruum/internal/view/dto/signup"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const (
	// FormID is the DOM id of the sign-up form, swapped after a failed submit.
	FormID = "signup-form"
	// ErrorID is the DOM id of the inline error slot.
	ErrorID = "signup-error"
)

type inputAttrs struct {
	label       string
	inputType   string
	placeholder string
}

var inputs = map[domain.Field]inputAttrs{
	domain.FieldFirstName: {"First name", "text", "Your name"},
	domain.FieldLastName:  {"Last name", "text", "Your last name"},
	domain.FieldEmail:     {"Email", "email", "Your email address"},
	domain.FieldPassword:  {"Create password", "password", "Enter password"},
}

const inputClass = "w-full h-12 px-4 border border-gray-300 rounded-lg text-sm focus:outline-none focus:border-black focus:ring-1 focus:ring-black"

// SignupForm renders the heading, the four inputs, the error slot and the
// submit button. Without JavaScript it still posts as a plain form.
func SignupForm(d dto.PageData) g.Node {
	fields := make([]g.Node, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		fields = append(fields, field(d, f))
	}

	submitLabel := "Let's go!"
	if d.Form.Submitting() {
		submitLabel = "Creating account..."
	}

	return h.Div(
		h.ID(FormID),
		h.Class("w-full max-w-none"),
		h.Div(
			h.Class("mb-8"),
			h.H1(h.Class("text-2xl font-medium mb-2"), g.Text("Sign up")),
			h.Div(
				h.Class("flex items-center gap-2 mb-4"),
				h.Span(h.Class("text-gray-400"), g.Text("•")),
				h.Span(h.Class("text-sm text-gray-600"),
					g.Text("Already have an account? "),
					h.A(h.Href("/login"), h.Class("text-black font-medium hover:underline"), g.Text("Login")),
				),
			),
			h.P(h.Class("text-gray-600 text-sm leading-relaxed mb-6"),
				g.Text("Create your account to unlock your creative potential "),
				g.Text("with our photography community"),
			),
		),
		h.Form(
			h.Class("w-full"),
			h.Method("post"),
			h.Action(d.SubmitURL()),
			hx.Post(d.SubmitURL()),
			hx.Target("#"+FormID),
			hx.Swap("outerHTML"),
			h.Div(h.Class("form-grid grid grid-cols-1 md:grid-cols-2 gap-4 mb-6"), g.Group(fields)),
			ErrorSlot(d.Form.Error),
			h.Button(
				h.Type("submit"),
				h.Class("w-full h-12 bg-black text-white rounded-lg text-sm font-medium hover:bg-gray-800 transition-colors"),
				g.If(d.Form.Submitting(), h.Disabled()),
				h.Span(h.Class("label-idle"), g.Text(submitLabel)),
				h.Span(h.Class("label-busy"), g.Text("Creating account...")),
			),
		),
	)
}

func field(d dto.PageData, f domain.Field) g.Node {
	in := inputs[f]
	name := string(f)
	return h.Div(
		h.Label(h.For(name), h.Class("block text-sm font-medium mb-2"), g.Text(in.label)),
		h.Input(
			h.Type(in.inputType),
			h.ID(name),
			h.Name(name),
			h.Value(d.Form.Draft.Get(f)),
			h.Placeholder(in.placeholder),
			h.Class(inputClass),
			h.Required(),
			hx.Post(d.FieldURL(f)),
			hx.Trigger("input changed delay:250ms"),
			hx.Target("#"+ErrorID),
			hx.Swap("outerHTML"),
		),
	)
}

// ErrorSlot is the inline error under the inputs. It is always rendered so
// a field edit can swap an empty one in.
func ErrorSlot(msg string) g.Node {
	return h.Div(
		h.ID(ErrorID),
		h.Class("text-red-600 text-sm"),
		h.Role("alert"),
		g.If(msg != "", g.Text(msg)),
	)
}
