package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/stucruum/internal/carousel"
	"github.com/nfrund/stucruum/internal/domain"
	"github.com/nfrund/stucruum/internal/handlers"
	"github.com/nfrund/stucruum/internal/middleware"
	"github.com/nfrund/stucruum/internal/page"
	"github.com/nfrund/stucruum/internal/rendering"
	"github.com/nfrund/stucruum/internal/signup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream records what the sign-up API received and answers with status.
type upstream struct {
	mu     sync.Mutex
	status int
	got    []domain.Draft
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var d domain.Draft
	_ = json.NewDecoder(r.Body).Decode(&d)
	u.mu.Lock()
	u.got = append(u.got, d)
	status := u.status
	u.mu.Unlock()
	w.WriteHeader(status)
}

func (u *upstream) drafts() []domain.Draft {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]domain.Draft(nil), u.got...)
}

type testApp struct {
	e     *echo.Echo
	pages *page.Manager
	api   *upstream
}

func newTestApp(t *testing.T, status int) *testApp {
	t.Helper()

	api := &upstream{status: status}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	pages := page.NewManager(carousel.NewCatalog(nil), signup.NewClient(srv.URL, srv.Client()), nil)
	t.Cleanup(pages.Shutdown)

	h := handlers.NewSignupHandler(pages, rendering.NewUniversalRenderer())
	e := echo.New()
	e.Validator = handlers.NewValidator()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("handler-test-secret-handler-test"))))
	e.Use(middleware.Owner)
	e.GET("/", h.RootGet)
	e.GET("/signup", h.SignupGet)
	e.POST("/signup/:session", h.SignupPost)
	e.POST("/signup/:session/fields/:field", h.FieldPost)
	e.POST("/signup/:session/carousel/:index", h.CarouselSelect)
	e.GET("/login", h.LoginGet)
	e.GET("/health", handlers.HealthGet)

	return &testApp{e: e, pages: pages, api: api}
}

// browser keeps cookies between requests like a real client.
type browser struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) browser() *browser {
	return &browser{app: a, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	b.app.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		b.cookies[ck.Name] = ck
	}
	return rec
}

// open loads the sign-up page and returns its session id.
func (b *browser) open(t *testing.T) (string, *goquery.Document) {
	t.Helper()
	rec := b.do(http.MethodGet, "/signup", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	action, ok := doc.Find("#signup-form form").Attr("action")
	require.True(t, ok)
	return strings.TrimPrefix(action, "/signup/"), doc
}

func fullForm() url.Values {
	return url.Values{
		"firstName": {"Ada"},
		"lastName":  {"Lovelace"},
		"email":     {"ada@example.com"},
		"password":  {"hunter22"},
	}
}

func TestSignupGet(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	id, doc := app.browser().open(t)

	assert.NotEmpty(t, id)
	assert.Equal(t, 1, app.pages.Len())
	assert.Equal(t, 4, doc.Find("#signup-form input").Length())
	assert.Equal(t, 4, doc.Find("button.indicator").Length())
	assert.Equal(t, "Work by Kanmi Osho", strings.TrimSpace(doc.Find(".credit").Text()))
	assert.Equal(t, "/signup/"+id+"/live", doc.Find("#signup-page").AttrOr("ws-connect", ""))
}

func TestRootRedirects(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	rec := app.browser().do(http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signup", rec.Header().Get(echo.HeaderLocation))
}

func TestSignupPost_HTMXSuccess(t *testing.T) {
	app := newTestApp(t, http.StatusCreated)
	b := app.browser()
	id, _ := b.open(t)

	rec := b.do(http.MethodPost, "/signup/"+id, fullForm(), true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
	require.Len(t, app.api.drafts(), 1)
	assert.Equal(t, domain.Draft{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "hunter22"}, app.api.drafts()[0])
}

func TestSignupPost_PlainSuccess(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	b := app.browser()
	id, _ := b.open(t)

	rec := b.do(http.MethodPost, "/signup/"+id, fullForm(), false)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestSignupPost_RejectedThenEditClears(t *testing.T) {
	app := newTestApp(t, http.StatusBadRequest)
	b := app.browser()
	id, _ := b.open(t)

	rec := b.do(http.MethodPost, "/signup/"+id, fullForm(), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("HX-Redirect"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Signup failed", doc.Find("#signup-error").Text())
	assert.Equal(t, "Ada", doc.Find("#firstName").AttrOr("value", ""))

	rec = b.do(http.MethodPost, "/signup/"+id+"/fields/email", url.Values{"email": {"ada@lovelace.dev"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err = goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#signup-error").Length())
	assert.Empty(t, doc.Find("#signup-error").Text())

	s, err := app.pages.Get(id)
	require.NoError(t, err)
	st := s.Form().State()
	assert.Equal(t, "ada@lovelace.dev", st.Draft.Email)
	assert.Equal(t, signup.StatusIdle, st.Status)
	assert.Empty(t, st.Error)
}

func TestSignupPost_PlainFailureRendersPage(t *testing.T) {
	app := newTestApp(t, http.StatusInternalServerError)
	b := app.browser()
	id, _ := b.open(t)

	rec := b.do(http.MethodPost, "/signup/"+id, fullForm(), false)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Signup failed", doc.Find("#signup-error").Text())
	assert.Equal(t, 1, doc.Find("#signup-carousel").Length())
}

func TestSignupPost_UsesDraftFromFieldEdits(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	b := app.browser()
	id, _ := b.open(t)

	for name, v := range map[string]string{"firstName": "Grace", "email": "grace@example.com"} {
		rec := b.do(http.MethodPost, "/signup/"+id+"/fields/"+name, url.Values{name: {v}}, true)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// An incomplete post leaves the stored draft as it is.
	rec := b.do(http.MethodPost, "/signup/"+id, url.Values{}, true)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, app.api.drafts(), 1)
	assert.Equal(t, domain.Draft{FirstName: "Grace", Email: "grace@example.com"}, app.api.drafts()[0])
}

func TestSessionRoutes_Errors(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	owner := app.browser()
	id, _ := owner.open(t)

	t.Run("unknown field", func(t *testing.T) {
		rec := owner.do(http.MethodPost, "/signup/"+id+"/fields/nickname", url.Values{"nickname": {"x"}}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("expired page", func(t *testing.T) {
		rec := owner.do(http.MethodPost, "/signup/missing/fields/email", url.Values{"email": {"x"}}, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("expired page on plain submit flashes and reloads", func(t *testing.T) {
		rec := owner.do(http.MethodPost, "/signup/missing", fullForm(), false)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/signup", rec.Header().Get(echo.HeaderLocation))

		rec = owner.do(http.MethodGet, "/signup", nil, false)
		doc, err := goquery.NewDocumentFromReader(rec.Body)
		require.NoError(t, err)
		assert.Equal(t, handlers.MsgPageExpired, doc.Find(".flash-error p").Text())
	})

	t.Run("another browser", func(t *testing.T) {
		other := app.browser()
		other.open(t)
		rec := other.do(http.MethodPost, "/signup/"+id+"/fields/email", url.Values{"email": {"x"}}, true)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = other.do(http.MethodPost, "/signup/"+id, fullForm(), true)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, app.api.drafts())
	})
}

func TestCarouselSelect(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	b := app.browser()
	id, _ := b.open(t)

	rec := b.do(http.MethodPost, "/signup/"+id+"/carousel/3", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "/images/SignupSlider4.png", doc.Find("img.opacity-100").AttrOr("src", ""))
	assert.Equal(t, "true", doc.Find("button.indicator").Eq(3).AttrOr("aria-current", ""))

	s, err := app.pages.Get(id)
	require.NoError(t, err)
	_, idx := s.Carousel()
	assert.Equal(t, 3, idx)

	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/signup/"+id+"/carousel/4", nil, true).Code)
	assert.Equal(t, http.StatusBadRequest, b.do(http.MethodPost, "/signup/"+id+"/carousel/x", nil, true).Code)
}

func TestLoginAndHealth(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	b := app.browser()

	rec := b.do(http.MethodGet, "/login", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login - STUCRUUM")

	rec = b.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, "OK", rec.Body.String())
}
