package signup

import (
	"fmt"

	"github.com/nfrund/stucruum/internal/carousel"
	"github.com/nfrund/stucruum/internal/domain"
	formstate "github.com/nfrund/stucruum/internal/signup"
)

// PageData is the View Model (DTO) for the sign-up page and its fragments.
type PageData struct {
	SessionID string
	Form      formstate.State
	Slides    []carousel.Slide
	Index     int
	// Flash carries one-off messages, e.g. after an expired page was replaced.
	Flash FlashData
}

// FlashData holds flash messages pulled from the session.
type FlashData struct {
	Error []string
}

// SubmitURL is where the form posts.
func (d PageData) SubmitURL() string {
	return "/signup/" + d.SessionID
}

// FieldURL receives the edits of one input.
func (d PageData) FieldURL(f domain.Field) string {
	return fmt.Sprintf("/signup/%s/fields/%s", d.SessionID, f)
}

// SlideURL selects slide i.
func (d PageData) SlideURL(i int) string {
	return fmt.Sprintf("/signup/%s/carousel/%d", d.SessionID, i)
}

// LiveURL is the websocket that streams carousel moves.
func (d PageData) LiveURL() string {
	return "/signup/" + d.SessionID + "/live"
}

// CurrentSlide returns the active slide, or a zero Slide when there are none.
func (d PageData) CurrentSlide() carousel.Slide {
	if d.Index < 0 || d.Index >= len(d.Slides) {
		return carousel.Slide{}
	}
	return d.Slides[d.Index]
}
