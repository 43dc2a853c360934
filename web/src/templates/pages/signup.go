package pages

import (
	dto "github.com/nfrund/stucruum/internal/view/dto/signup"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/stucruum/web/src/templates/partials"
)

// Signup is the sign-up page body: carousel on one side, form on the other.
// The wrapper opens the live websocket that keeps the carousel moving.
func Signup(d dto.PageData) g.Node {
	return h.Div(
		h.ID("signup-page"),
		h.Class("w-full flex flex-col md:flex-row"),
		hx.Ext("ws"),
		g.Attr("ws-connect", d.LiveURL()),
		flashes(d.Flash),
		partials.Carousel(d, false),
		h.Div(
			h.Class("w-full md:w-[40%] flex-1 flex items-center justify-center p-6 md:px-8"),
			h.Div(h.Class("w-full max-w-[512px] flex justify-center"), partials.SignupForm(d)),
		),
	)
}

func flashes(f dto.FlashData) g.Node {
	if len(f.Error) == 0 {
		return nil
	}
	msgs := make([]g.Node, 0, len(f.Error))
	for _, m := range f.Error {
		msgs = append(msgs, h.P(g.Text(m)))
	}
	return h.Div(h.Class("flash flash-error w-full bg-red-50 text-red-700 text-sm px-6 py-3"), g.Group(msgs))
}
