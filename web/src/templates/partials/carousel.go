package partials

import (
	"fmt"

	dto "github.com/nfrund/stucruum/internal/view/dto/signup"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

// CarouselID is the DOM id replaced by indicator clicks and live pushes.
const CarouselID = "signup-carousel"

// Carousel renders the slideshow with its credit and indicators. With oob
// set the fragment carries hx-swap-oob so the htmx websocket extension can
// swap it in place.
func Carousel(d dto.PageData, oob bool) g.Node {
	images := make([]g.Node, 0, len(d.Slides))
	indicators := make([]g.Node, 0, len(d.Slides))

	for i, s := range d.Slides {
		active := i == d.Index
		images = append(images, h.Img(
			h.Src(s.Src),
			h.Alt(s.Alt),
			c.Classes{
				"slide absolute inset-0 w-full h-full object-cover transition-opacity duration-1000": true,
				"opacity-100": active,
				"opacity-0":   !active,
			},
		))
		indicators = append(indicators, h.Button(
			h.Type("button"),
			h.Aria("label", fmt.Sprintf("Show slide %d", i+1)),
			g.If(active, h.Aria("current", "true")),
			hx.Post(d.SlideURL(i)),
			hx.Target("#"+CarouselID),
			hx.Swap("outerHTML"),
			c.Classes{
				"indicator w-3 h-3 rounded-full transition-colors": true,
				"bg-white":    active,
				"bg-white/50": !active,
			},
		))
	}

	return h.Section(
		h.ID(CarouselID),
		h.Class("relative w-full md:w-[60%] h-[300px] md:h-[410px]"),
		g.If(oob, g.Attr("hx-swap-oob", "true")),
		g.Group(images),
		h.Div(h.Class("credit absolute bottom-6 left-6 text-white text-sm"), g.Text(d.CurrentSlide().Credit)),
		h.Div(h.Class("indicators absolute bottom-6 right-6 flex gap-2"), g.Group(indicators)),
	)
}
