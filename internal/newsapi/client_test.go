package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"daybrief/internal/apierr"
	"daybrief/internal/catalog"
	"daybrief/internal/httpjson"
	"daybrief/internal/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fiveArticles = `{"status":"ok","totalResults":6,"articles":[
	{"source":{"id":"bbc-news","name":"BBC News"},"title":"One","description":"d1","url":"https://n.example/1","urlToImage":"","publishedAt":"2024-05-01T06:00:00Z"},
	{"source":{"id":null,"name":"Reuters"},"title":"Two","description":"d2","url":"https://n.example/2","publishedAt":"2024-05-01T06:10:00Z"},
	{"source":{"id":null,"name":""},"title":"Three","description":null,"url":"https://n.example/3","publishedAt":"2024-05-01T06:20:00Z"},
	{"source":{"id":null,"name":"AP"},"title":"[Removed]","url":"https://removed.com","publishedAt":"1970-01-01T00:00:00Z"},
	{"source":{"id":null,"name":"AP"},"title":"Four","url":"https://n.example/4","publishedAt":"2024-05-01T06:30:00Z"},
	{"source":{"id":null,"name":"AP"},"title":"Five","url":"https://n.example/5","publishedAt":"2024-05-01T06:40:00Z"}
]}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, provider.StaticKey("k"), httpjson.New(Name, srv.Client()), catalog.New(), "us", "en")
}

func TestTopHeadlines(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/top-headlines", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "us", q.Get("country"))
		assert.Equal(t, "k", q.Get("apiKey"))
		assert.Empty(t, q.Get("category"))
		w.Write([]byte(fiveArticles))
	})
	arts, err := c.Headlines(context.Background(), "", 20)
	require.NoError(t, err)
	require.Len(t, arts, 5)
	assert.Equal(t, "BBC News", arts[0].Source)
	assert.Equal(t, provider.UnknownSource, arts[2].Source)
	assert.Equal(t, catalog.General, arts[0].Category)
}

func TestCategoryAndClamp(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "technology", r.URL.Query().Get("category"))
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
	})
	arts, err := c.Headlines(context.Background(), catalog.Technology, 1000)
	require.NoError(t, err)
	assert.Empty(t, arts)

	_, err = c.Headlines(context.Background(), catalog.Military, 10)
	assert.ErrorIs(t, err, provider.ErrUnsupported)
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/everything", r.URL.Path)
		assert.Equal(t, "electric cars", r.URL.Query().Get("q"))
		assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		w.Write([]byte(fiveArticles))
	})
	arts, err := c.Search(context.Background(), " electric cars ", 10)
	require.NoError(t, err)
	assert.Len(t, arts, 5)
	assert.Equal(t, "search", arts[0].Category)
}

func TestKeyRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid or incorrect."}`))
	})
	_, err := c.Headlines(context.Background(), "", 10)
	assert.True(t, apierr.IsAuth(err))
	assert.Contains(t, err.Error(), "Your API key is invalid")
}

func TestStatusErrorInBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","code":"apiKeyExhausted","message":"too many requests"}`))
	})
	_, err := c.Headlines(context.Background(), "", 10)
	assert.True(t, apierr.IsAuth(err))

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","code":"unexpectedError","message":"boom"}`))
	})
	_, err = c.Headlines(context.Background(), "", 10)
	assert.True(t, apierr.IsTransport(err))
	assert.False(t, apierr.IsAuth(err))
}

func TestQuotaResponsesAreAuthErrors(t *testing.T) {
	for _, code := range []string{"rateLimited", "apiKeyExhausted"} {
		t.Run(code, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"status":"error","code":"` + code + `","message":"You have made too many requests recently."}`))
			})
			_, err := c.Headlines(context.Background(), "", 10)
			require.Error(t, err)
			assert.True(t, apierr.IsAuth(err))
			assert.Contains(t, err.Error(), "quota")
			assert.Contains(t, err.Error(), code)

			var ae *apierr.AuthError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, http.StatusTooManyRequests, ae.Status)
		})
	}
}

func TestOtherHTTPErrorsStayTransport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","code":"unexpectedError","message":"boom"}`))
	})
	_, err := c.Headlines(context.Background(), "", 10)
	assert.True(t, apierr.IsTransport(err))
	assert.False(t, apierr.IsAuth(err))
}

func TestMalformedIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","articles":`))
	})
	arts, err := c.Headlines(context.Background(), "", 10)
	assert.NoError(t, err)
	assert.Empty(t, arts)
}
