package page

import "github.com/nfrund/stucruum/internal/pubsub"

// CarouselChange is published whenever a page's carousel moves.
type CarouselChange struct {
	Index int `json:"index"`
}

// CarouselChanged is the per-page topic family for carousel moves.
var CarouselChanged = pubsub.NewEvent[CarouselChange]("signup.page", "carousel")
