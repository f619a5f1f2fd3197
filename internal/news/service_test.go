package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"daybrief/internal/apierr"
	"daybrief/internal/cache"
	"daybrief/internal/catalog"
	"daybrief/internal/httpjson"
	"daybrief/internal/model"
	"daybrief/internal/newsapi"
	"daybrief/internal/provider"
	"daybrief/internal/storage"
	"daybrief/internal/tianapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name     string
	family   provider.Family
	key      string
	search   bool
	articles []model.Article
	err      error
	calls    atomic.Int32
}

func (f *fakeProvider) Name() string            { return f.name }
func (f *fakeProvider) Family() provider.Family { return f.family }
func (f *fakeProvider) Configured() bool        { return f.key != "" }

func (f *fakeProvider) Supports(c provider.Capability) bool {
	return c != provider.CapSearch || f.search
}

func (f *fakeProvider) Headlines(ctx context.Context, category string, pageSize int) ([]model.Article, error) {
	f.calls.Add(1)
	return f.articles, f.err
}

func (f *fakeProvider) Search(ctx context.Context, query string, pageSize int) ([]model.Article, error) {
	f.calls.Add(1)
	return f.articles, f.err
}

func (f *fakeProvider) Categories(ctx context.Context) []model.CategoryDescriptor {
	return []model.CategoryDescriptor{{ID: f.name}}
}

func articles(n int, prefix string) []model.Article {
	out := make([]model.Article, n)
	for i := range out {
		out[i] = model.Article{Title: fmt.Sprintf("%s %d", prefix, i), URL: fmt.Sprintf("https://%s.example/%d", prefix, i), Source: prefix}
	}
	return out
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newService(c *clock, ps ...provider.NewsProvider) *Service {
	return NewService(cache.New(storage.NewMemoryStore(), c.Now), time.UTC, ps...)
}

func morning() *clock { return &clock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)} }

func TestChainOrder(t *testing.T) {
	dom := &fakeProvider{name: "dom", family: provider.FamilyDomestic, key: "k"}
	intl := &fakeProvider{name: "intl", family: provider.FamilyInternational, key: "k"}
	s := newService(morning(), intl, dom)

	assert.Equal(t, []string{"dom", "intl"}, names(s.Chain("zh-CN")))
	assert.Equal(t, []string{"intl", "dom"}, names(s.Chain("en-US")))

	dom.key = ""
	assert.Equal(t, []string{"intl"}, names(s.Chain("zh-CN")))
}

func names(ps []provider.NewsProvider) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name()
	}
	return out
}

func TestIsDomesticLocale(t *testing.T) {
	for _, l := range []string{"zh", "zh-CN", "zh_TW", "CN", " zh-Hans "} {
		assert.True(t, IsDomesticLocale(l), l)
	}
	for _, l := range []string{"", "en", "en-US", "zu"} {
		assert.False(t, IsDomesticLocale(l), l)
	}
}

func TestAuthFailureFallsBackToInternational(t *testing.T) {
	dom := &fakeProvider{name: "dom", family: provider.FamilyDomestic, key: "k",
		err: apierr.NewAuthError("dom", 0, "230", "key错误")}
	intl := &fakeProvider{name: "intl", family: provider.FamilyInternational, key: "k", articles: articles(5, "intl")}
	s := newService(morning(), dom, intl)

	got, err := s.Headlines(context.Background(), Request{Locale: "zh-CN"})
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, "intl", got[0].Source)
	assert.Equal(t, int32(1), dom.calls.Load())
}

func TestNothingConfiguredMakesNoCalls(t *testing.T) {
	dom := &fakeProvider{name: "dom", family: provider.FamilyDomestic}
	intl := &fakeProvider{name: "intl", family: provider.FamilyInternational}
	s := newService(morning(), dom, intl)

	_, err := s.Headlines(context.Background(), Request{Locale: "zh-CN"})
	assert.True(t, apierr.IsNotConfigured(err))
	_, err = s.Categories(context.Background(), "en")
	assert.True(t, apierr.IsNotConfigured(err))
	assert.Zero(t, dom.calls.Load()+intl.calls.Load())
	assert.False(t, s.Configured(provider.FamilyDomestic))
}

func TestAllFailedAggregates(t *testing.T) {
	dom := &fakeProvider{name: "dom", family: provider.FamilyDomestic, key: "k",
		err: &apierr.TransportError{Provider: "dom", Message: "connection reset"}}
	intl := &fakeProvider{name: "intl", family: provider.FamilyInternational, key: "k",
		err: &apierr.TransportError{Provider: "intl", Status: 503, Message: "Service Unavailable"}}
	s := newService(morning(), dom, intl)

	_, err := s.Category(context.Background(), Request{Locale: "zh", Category: "sports"})
	require.Error(t, err)
	assert.True(t, apierr.IsAggregate(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.Contains(t, err.Error(), "Service Unavailable")
}

func TestEmptySuccessStopsTheChain(t *testing.T) {
	dom := &fakeProvider{name: "dom", family: provider.FamilyDomestic, key: "k"}
	intl := &fakeProvider{name: "intl", family: provider.FamilyInternational, key: "k", articles: articles(3, "intl")}
	s := newService(morning(), dom, intl)

	got, err := s.Headlines(context.Background(), Request{Locale: "zh-CN"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, intl.calls.Load())
}

func TestUnsupportedCategorySkipsProvider(t *testing.T) {
	dom := &fakeProvider{name: "dom", family: provider.FamilyDomestic, key: "k", err: provider.ErrUnsupported}
	intl := &fakeProvider{name: "intl", family: provider.FamilyInternational, key: "k", articles: articles(2, "intl")}
	s := newService(morning(), dom, intl)

	got, err := s.Category(context.Background(), Request{Locale: "zh-CN", Category: "science"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearch(t *testing.T) {
	dom := &fakeProvider{name: "dom", family: provider.FamilyDomestic, key: "k"}
	intl := &fakeProvider{name: "intl", family: provider.FamilyInternational, key: "k", search: true, articles: articles(4, "intl")}
	s := newService(morning(), dom, intl)

	got, err := s.Search(context.Background(), Request{Locale: "zh-CN", Query: "  "})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Search(context.Background(), Request{Locale: "zh-CN", Query: "mars"})
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Zero(t, dom.calls.Load())

	// only providers without search configured
	s = newService(morning(), dom)
	got, err = s.Search(context.Background(), Request{Locale: "zh-CN", Query: "mars"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCachedWithinWindow(t *testing.T) {
	c := morning()
	p := &fakeProvider{name: "intl", family: provider.FamilyInternational, key: "k", articles: articles(3, "intl")}
	s := newService(c, p)
	req := Request{Locale: "en", PageSize: 10}

	first, err := s.Headlines(context.Background(), req)
	require.NoError(t, err)
	c.t = c.t.Add(2 * time.Hour)
	second, err := s.Headlines(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), p.calls.Load())

	// crossing into the afternoon window refetches
	c.t = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	_, err = s.Headlines(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), p.calls.Load())

	// skipping the cache always calls the provider
	_, err = s.Headlines(context.Background(), Request{Locale: "en", PageSize: 10, SkipCache: true})
	require.NoError(t, err)
	assert.Equal(t, int32(3), p.calls.Load())

	// a different category is a different key
	_, err = s.Category(context.Background(), Request{Locale: "en", Category: "sports", PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int32(4), p.calls.Load())
}

func TestErrorsAreNotCached(t *testing.T) {
	p := &fakeProvider{name: "intl", family: provider.FamilyInternational, key: "k",
		err: &apierr.TransportError{Provider: "intl", Message: "timeout"}}
	s := newService(morning(), p)

	_, err := s.Headlines(context.Background(), Request{Locale: "en"})
	require.Error(t, err)
	p.err = nil
	p.articles = articles(1, "intl")
	got, err := s.Headlines(context.Background(), Request{Locale: "en"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// End to end through real adapters: the domestic key is rejected and the
// international provider answers.
func TestDomesticRejectedThroughAdapters(t *testing.T) {
	var tianCalls atomic.Int32
	tian := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tianCalls.Add(1)
		w.Write([]byte(`{"code":230,"msg":"key错误或为空"}`))
	}))
	defer tian.Close()
	intl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString(`{"status":"ok","totalResults":5,"articles":[`)
		for i := 0; i < 5; i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, `{"source":{"name":"Wire"},"title":"Story %d","url":"https://wire.example/%d","publishedAt":"2024-05-01T08:00:00Z"}`, i, i)
		}
		b.WriteString(`]}`)
		w.Write([]byte(b.String()))
	}))
	defer intl.Close()

	cat := catalog.New()
	s := newService(morning(),
		tianapi.NewClient(tian.URL, provider.StaticKey("bad"), httpjson.New(tianapi.Name, tian.Client()), cat),
		newsapi.NewClient(intl.URL, provider.StaticKey("good"), httpjson.New(newsapi.Name, intl.Client()), cat, "us", "en"),
	)

	got, err := s.Headlines(context.Background(), Request{Locale: "zh-CN", PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, int32(1), tianCalls.Load())
}

func TestValidArticlesThroughAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"msg":"success","result":{"newslist":[
			{"title":"A","url":"https://a.example/1","source":"新华网","ctime":"2024-05-01 08:00"},
			{"title":"B","url":"https://a.example/2","source":"人民网","ctime":"2024-05-01 08:05"},
			{"title":"C","url":"","source":"人民网","ctime":"2024-05-01 08:10"}
		]}}`))
	}))
	defer srv.Close()

	intl := &fakeProvider{name: "intl", family: provider.FamilyInternational, key: "k", articles: articles(5, "intl")}
	s := newService(morning(),
		tianapi.NewClient(srv.URL, provider.StaticKey("k"), httpjson.New(tianapi.Name, srv.Client()), catalog.New()),
		intl,
	)
	got, err := s.Headlines(context.Background(), Request{Locale: "zh-CN", PageSize: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, a := range got {
		assert.NotEmpty(t, a.Title)
		assert.NotEmpty(t, a.URL)
	}
	assert.Zero(t, intl.calls.Load())
}
