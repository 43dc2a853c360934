package pages

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Login is the landing spot after a successful sign-up. Logging in itself
// is handled elsewhere.
func Login() g.Node {
	return h.Div(
		h.ID("login-page"),
		h.Class("w-full flex items-center justify-center p-6"),
		h.Div(
			h.Class("w-full max-w-[512px]"),
			h.H1(h.Class("text-2xl font-medium mb-2"), g.Text("Login")),
			h.P(h.Class("text-sm text-gray-600"),
				g.Text("Don't have an account? "),
				h.A(h.Href("/signup"), h.Class("text-black font-medium hover:underline"), g.Text("Sign up")),
			),
		),
	)
}
