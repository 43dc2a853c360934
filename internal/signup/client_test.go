package signup_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nfrund/stucruum/internal/domain"
	"github.com/nfrund/stucruum/internal/signup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SubmitPostsJSON(t *testing.T) {
	var (
		gotMethod, gotPath, gotType string
		gotBody                     map[string]string
	)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	client := signup.NewClient(upstream.URL+"/", upstream.Client())
	draft := domain.Draft{FirstName: "David", LastName: "Adewole", Email: "david@example.com", Password: "s3cret"}

	require.NoError(t, client.Submit(context.Background(), draft))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/auth/signup", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, map[string]string{
		"firstName": "David",
		"lastName":  "Adewole",
		"email":     "david@example.com",
		"password":  "s3cret",
	}, gotBody)
}

func TestClient_SubmitNonSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "email taken", http.StatusConflict)
	}))
	defer upstream.Close()

	err := signup.NewClient(upstream.URL, nil).Submit(context.Background(), domain.Draft{})

	var rejected *signup.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusConflict, rejected.StatusCode)
	assert.Equal(t, signup.MsgRejected, err.Error())
}

func TestClient_SubmitTransportError(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	form := signup.NewForm(signup.NewClient(url, nil))
	out, err := form.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, signup.StatusFailed, out.State.Status)
	assert.NotEqual(t, signup.MsgRejected, out.State.Error)
	assert.NotEmpty(t, out.State.Error)
}

func TestClient_Endpoint(t *testing.T) {
	assert.Equal(t, "http://api.local/api/auth/signup", signup.NewClient("http://api.local/", nil).Endpoint())
}
