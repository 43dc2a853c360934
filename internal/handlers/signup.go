package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stucruum/internal/carousel"
	"github.com/nfrund/stucruum/internal/domain"
	"github.com/nfrund/stucruum/internal/middleware"
	"github.com/nfrund/stucruum/internal/page"
	"github.com/nfrund/stucruum/internal/rendering"
	"github.com/nfrund/stucruum/internal/signup"
	"github.com/nfrund/stucruum/internal/view"
	dto "github.com/nfrund/stucruum/internal/view/dto/signup"
	"github.com/nfrund/stucruum/web/src/templates/layouts"
	"github.com/nfrund/stucruum/web/src/templates/pages"
	"github.com/nfrund/stucruum/web/src/templates/partials"
)

const (
	signupTitle = "Sign up"
	// MsgPageExpired is flashed when a plain form post hits a reaped page.
	MsgPageExpired = "This page expired. Please fill in the form again."
)

// SignupHandler serves the sign-up page and its htmx endpoints.
type SignupHandler struct {
	pages    *page.Manager
	renderer rendering.Renderer
}

// NewSignupHandler creates a new SignupHandler.
func NewSignupHandler(pages *page.Manager, renderer rendering.Renderer) *SignupHandler {
	return &SignupHandler{pages: pages, renderer: renderer}
}

// RootGet sends visitors to the sign-up page.
func (h *SignupHandler) RootGet(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/signup")
}

// SignupGet opens a fresh page session and renders the full page (GET /signup).
func (h *SignupHandler) SignupGet(c echo.Context) error {
	s, err := h.pages.Open(middleware.OwnerFrom(c))
	if err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to open page session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not open the sign-up page")
	}

	data := pageData(s)
	data.Flash = view.GetFlashData(c)
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base(signupTitle, pages.Signup(data)))
}

// FieldPost stores one edited input and answers with the cleared error slot
// (POST /signup/:session/fields/:field).
func (h *SignupHandler) FieldPost(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	field, err := domain.ParseField(c.Param("field"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	st, err := s.Form().Change(field, c.FormValue(string(field)))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.renderer.RenderPage(c, http.StatusOK, partials.ErrorSlot(st.Error))
}

// SignupPost submits the draft (POST /signup/:session). htmx requests get an
// HX-Redirect on success and the re-rendered form on failure. Plain form
// posts get a 303 or the full page.
func (h *SignupHandler) SignupPost(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	htmx := isHTMX(c)

	s, err := h.session(c)
	if err != nil {
		if !htmx && errors.Is(err, errPageExpired) {
			view.SetFlashError(c, MsgPageExpired)
			return c.Redirect(http.StatusSeeOther, "/signup")
		}
		return err
	}

	// A complete post refreshes the draft. Anything else submits the draft
	// built up by field edits.
	var req SignupRequest
	if err := c.Bind(&req); err == nil && c.Validate(&req) == nil {
		if err := syncDraft(s.Form(), req.Draft()); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	outcome, err := s.Form().Submit(ctx)
	if errors.Is(err, signup.ErrSubmitInFlight) {
		return echo.NewHTTPError(http.StatusConflict, "a sign-up is already in progress")
	}
	if err != nil {
		return err
	}

	if outcome.Redirect != "" {
		logger.Info("Sign-up accepted", "session", s.ID)
		if htmx {
			c.Response().Header().Set("HX-Redirect", outcome.Redirect)
			return c.NoContent(http.StatusOK)
		}
		return c.Redirect(http.StatusSeeOther, outcome.Redirect)
	}

	logger.Warn("Sign-up failed", "session", s.ID, "reason", outcome.State.Error)
	data := pageData(s)
	data.Form = outcome.State
	if htmx {
		return h.renderer.RenderPage(c, http.StatusOK, partials.SignupForm(data))
	}
	return h.renderer.RenderPage(c, http.StatusUnprocessableEntity, layouts.Base(signupTitle, pages.Signup(data)))
}

// CarouselSelect jumps to an indicator's slide and answers with the carousel
// (POST /signup/:session/carousel/:index).
func (h *SignupHandler) CarouselSelect(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}

	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "slide index must be a number")
	}

	switch err := s.SelectSlide(i); {
	case errors.Is(err, carousel.ErrIndexOutOfRange):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, carousel.ErrStopped):
		return echo.NewHTTPError(http.StatusConflict, "page is no longer live")
	case err != nil:
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, partials.Carousel(pageData(s), false))
}

// LoginGet renders the login placeholder (GET /login).
func (h *SignupHandler) LoginGet(c echo.Context) error {
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base("Login", pages.Login()))
}

// HealthGet answers liveness probes.
func HealthGet(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

var errPageExpired = echo.NewHTTPError(http.StatusNotFound, "page expired")

// session resolves the :session parameter for the requesting browser.
func (h *SignupHandler) session(c echo.Context) (*page.Session, error) {
	s, err := h.pages.Authorize(c.Param("session"), middleware.OwnerFrom(c))
	switch {
	case errors.Is(err, page.ErrSessionNotFound):
		return nil, errPageExpired
	case errors.Is(err, page.ErrForbidden):
		return nil, echo.NewHTTPError(http.StatusForbidden, "page belongs to another browser")
	case err != nil:
		return nil, err
	}
	return s, nil
}

func syncDraft(f *signup.Form, d domain.Draft) error {
	for _, field := range domain.Fields {
		if f.State().Draft.Get(field) == d.Get(field) {
			continue
		}
		if _, err := f.Change(field, d.Get(field)); err != nil {
			return err
		}
	}
	return nil
}

func pageData(s *page.Session) dto.PageData {
	slides, index := s.Carousel()
	return dto.PageData{
		SessionID: s.ID,
		Form:      s.Form().State(),
		Slides:    slides,
		Index:     index,
	}
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
