package partials

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

var navLinks = []string{"The Stock Project", "Company", "Community"}

// Header is the fixed top bar.
func Header() g.Node {
	links := make([]g.Node, 0, len(navLinks))
	for _, label := range navLinks {
		links = append(links, h.A(h.Href("#"), h.Class("text-gray-700 hover:text-black transition-colors"), g.Text(label)))
	}

	return h.Header(
		h.Class("site-header fixed top-0 left-0 right-0 z-50 flex items-center justify-between px-8 py-6 bg-white border-b border-gray-200"),
		h.Div(h.Class("text-2xl font-bold"), g.Text("STUCRUUM")),
		h.Nav(h.Class("hidden md:flex items-center space-x-8"), g.Group(links)),
		h.Button(h.Type("button"), h.Class("bg-black text-white px-6 py-2 rounded-lg hover:bg-gray-800 transition-colors"), g.Text("Join us")),
	)
}

// Footer is the bottom bar.
func Footer() g.Node {
	return h.Footer(
		h.Class("text-center py-6 text-gray-600 text-sm bg-white border-t border-gray-200"),
		h.Span(h.Class("footer-note"), g.Text("2024 © PHOTORUUM FACILITY")),
	)
}
