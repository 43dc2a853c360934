package rendering_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stucruum/internal/rendering"
	"github.com/nfrund/stucruum/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

func TestUniversalRenderer_RenderComponent(t *testing.T) {
	r := rendering.NewUniversalRenderer()
	node := h.P(h.Class("credit"), g.Text("Work by Helder"))

	fromNode, err := r.RenderComponent(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, `<p class="credit">Work by Helder</p>`, string(fromNode))

	fromTempl, err := r.RenderComponent(context.Background(), view.Component(node))
	require.NoError(t, err)
	assert.Equal(t, string(fromNode), string(fromTempl))

	_, err = r.RenderComponent(context.Background(), 42)
	assert.ErrorContains(t, err, "unsupported component type int")
}

func TestUniversalRenderer_RenderPage(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := rendering.NewUniversalRenderer().RenderPage(c, http.StatusUnprocessableEntity, h.Div(g.Text("x")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Equal(t, "<div>x</div>", rec.Body.String())
}
