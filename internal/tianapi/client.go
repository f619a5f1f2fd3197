// Package tianapi adapts the TianAPI news endpoints (domestic primary provider).
// Docs: https://www.tianapi.com/apiview/
package tianapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"daybrief/internal/apierr"
	"daybrief/internal/catalog"
	"daybrief/internal/httpjson"
	"daybrief/internal/model"
	"daybrief/internal/provider"
)

const (
	Name        = "tianapi"
	MaxPageSize = 50

	codeOK = 200
)

// Provider codes meaning the key itself was rejected.
var authCodes = map[int]bool{
	150: true, // quota used up
	160: true, // API not applied for / not activated
	230: true, // key wrong or empty
}

// Client talks to TianAPI. Requests go through a rate-limited getter because the
// free tier enforces a strict QPS ceiling.
type Client struct {
	baseURL string
	key     provider.KeyFunc
	http    httpjson.Getter
	catalog *catalog.Cache
}

// NewClient creates a TianAPI client. getter should be the provider's rate-limit gateway.
func NewClient(baseURL string, key provider.KeyFunc, getter httpjson.Getter, cat *catalog.Cache) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://apis.tianapi.com"
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    getter,
		catalog: cat,
	}
	cat.Register(Name, catalog.Source{Fetch: c.fetchColumns, Fallback: Fallback()})
	return c
}

func (c *Client) Name() string            { return Name }
func (c *Client) Family() provider.Family { return provider.FamilyDomestic }
func (c *Client) Configured() bool        { return c.key() != "" }

func (c *Client) Supports(k provider.Capability) bool {
	return k == provider.CapHeadlines || k == provider.CapCategory
}

// Categories returns the column taxonomy, fetched once per day.
func (c *Client) Categories(ctx context.Context) []model.CategoryDescriptor {
	return c.catalog.Categories(ctx, Name)
}

// envelope is the common TianAPI response wrapper.
type envelope struct {
	Code   int             `json:"code"`
	Msg    string          `json:"msg"`
	Result json.RawMessage `json:"result"`
}

type newsItem struct {
	ID          string `json:"id"`
	CTime       string `json:"ctime"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	PicURL      string `json:"picUrl"`
	URL         string `json:"url"`
}

type column struct {
	Col  json.Number `json:"col"`
	Name string      `json:"name"`
}

// Headlines returns news for a category. An empty or "general" category, or a column
// without a reference, uses the general headline endpoint.
func (c *Client) Headlines(ctx context.Context, category string, pageSize int) ([]model.Article, error) {
	num := provider.ClampPageSize(pageSize, MaxPageSize)
	category = strings.TrimSpace(category)
	q := url.Values{"num": {strconv.Itoa(num)}}
	endpoint := c.baseURL + "/generalnews/index"
	if category != "" && category != catalog.General {
		d, ok := c.catalog.Lookup(ctx, Name, category)
		if !ok {
			return nil, provider.ErrUnsupported
		}
		if ref := d.Ref(); ref != "" {
			endpoint = c.baseURL + "/allnews/index"
			q.Set("col", ref)
		}
		category = d.ID
	}
	if category == "" {
		category = catalog.General
	}

	var res struct {
		Newslist []newsItem `json:"newslist"`
	}
	ok, err := c.get(ctx, endpoint, q, &res)
	if err != nil || !ok {
		return nil, err
	}
	raw := make([]model.Article, 0, len(res.Newslist))
	for _, it := range res.Newslist {
		raw = append(raw, model.Article{
			Title:       it.Title,
			Description: it.Description,
			URL:         it.URL,
			ImageURL:    it.PicURL,
			PublishedAt: convertTime(it.CTime),
			Source:      it.Source,
		})
	}
	return provider.Normalize(raw, category, time.Now()), nil
}

// Search is not offered by TianAPI's news endpoints.
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]model.Article, error) {
	return nil, nil
}

// fetchColumns loads the provider's column list for the catalog cache.
func (c *Client) fetchColumns(ctx context.Context) ([]model.CategoryDescriptor, error) {
	var res struct {
		List []column `json:"list"`
	}
	ok, err := c.get(ctx, c.baseURL+"/allnews/columns", url.Values{}, &res)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	out := []model.CategoryDescriptor{{ID: catalog.General, Label: catalog.Label(catalog.General)}}
	for _, col := range res.List {
		ref := col.Col.String()
		if ref == "" {
			continue
		}
		id, known := columnIDs[strings.TrimSpace(col.Name)]
		if !known {
			id = "col-" + ref
		}
		out = append(out, model.CategoryDescriptor{ID: id, Label: col.Name, ProviderCategoryRef: model.StrRef(ref)})
	}
	return out, nil
}

// get performs a keyed request and unwraps the envelope into out. It returns false
// when the payload was malformed and should be treated as empty.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) (bool, error) {
	key := c.key()
	if key == "" {
		return false, &apierr.NotConfiguredError{What: Name}
	}
	q.Set("key", key)
	var env envelope
	if err := c.http.GetJSON(ctx, endpoint+"?"+q.Encode(), &env); err != nil {
		if apierr.IsMalformed(err) {
			slog.Warn("tianapi: malformed response", "error", err)
			return false, nil
		}
		return false, err
	}
	if env.Code != codeOK {
		if env.Code == 0 && env.Msg == "" {
			slog.Warn("tianapi: response without status code")
			return false, nil
		}
		if authCodes[env.Code] {
			return false, apierr.NewAuthError(Name, 0, strconv.Itoa(env.Code), env.Msg)
		}
		return false, &apierr.TransportError{Provider: Name, Code: strconv.Itoa(env.Code), Message: env.Msg}
	}
	if len(env.Result) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		slog.Warn("tianapi: unexpected result shape", "error", err)
		return false, nil
	}
	return true, nil
}

// convertTime turns "2006-01-02 15:04" (Beijing time) into RFC3339; unknown formats pass through.
func convertTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, beijing); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return s
}

var beijing = time.FixedZone("CST", 8*3600)
