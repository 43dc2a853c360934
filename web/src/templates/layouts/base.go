package layouts

import (
	"github.com/a-h/templ"
	"github.com/nfrund/stucruum/internal/view"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/stucruum/web/src/templates/partials"
)

const (
	htmxSrc     = "https://unpkg.com/htmx.org@2.0.4"
	htmxWSSrc   = "https://unpkg.com/htmx-ext-ws@2.0.2/ws.js"
	tailwindSrc = "https://cdn.tailwindcss.com"
)

// Base wraps page content in the document shell: head, fixed header and footer.
func Base(title string, content ...g.Node) templ.Component {
	return view.Component(c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "en",
		Head: []g.Node{
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.Script(h.Src(tailwindSrc)),
			h.Script(h.Src(htmxSrc)),
			h.Script(h.Src(htmxWSSrc)),
			h.Link(h.Rel("stylesheet"), h.Href("/static/signup.css")),
		},
		Body: []g.Node{
			h.Class("min-h-screen bg-white"),
			partials.Header(),
			h.Main(h.Class("flex pt-[88px] min-h-screen"), g.Group(content)),
			partials.Footer(),
		},
	}))
}
