// Package juhe adapts the Juhe toutiao headline API (domestic secondary provider).
package juhe

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
	Name        = "juhe"
	MaxPageSize = 50
)

var authCodes = map[int]bool{
	10001: true, // wrong key
	10002: true, // key has no permission for this API (not activated)
	10012: true, // daily request quota exceeded
	10013: true, // test key quota exceeded
}

// Client is a minimal Juhe toutiao client. The category list is fixed by the provider.
type Client struct {
	baseURL string
	key     provider.KeyFunc
	http    httpjson.Getter
	catalog *catalog.Cache
}

func NewClient(baseURL string, key provider.KeyFunc, getter httpjson.Getter, cat *catalog.Cache) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "http://v.juhe.cn"
	}
	cat.Register(Name, catalog.Source{Fallback: Categories()})
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    getter,
		catalog: cat,
	}
}

func (c *Client) Name() string            { return Name }
func (c *Client) Family() provider.Family { return provider.FamilyDomestic }
func (c *Client) Configured() bool        { return c.key() != "" }

func (c *Client) Supports(k provider.Capability) bool {
	return k == provider.CapHeadlines || k == provider.CapCategory
}

func (c *Client) Categories(ctx context.Context) []model.CategoryDescriptor {
	return c.catalog.Categories(ctx, Name)
}

type response struct {
	Reason    string          `json:"reason"`
	ErrorCode int             `json:"error_code"`
	Result    json.RawMessage `json:"result"`
}

type item struct {
	UniqueKey  string `json:"uniquekey"`
	Title      string `json:"title"`
	Date       string `json:"date"`
	Category   string `json:"category"`
	AuthorName string `json:"author_name"`
	URL        string `json:"url"`
	Thumbnail  string `json:"thumbnail_pic_s"`
}

// Headlines fetches toutiao news of a type; "" or "general" maps to "top".
func (c *Client) Headlines(ctx context.Context, category string, pageSize int) ([]model.Article, error) {
	key := c.key()
	if key == "" {
		return nil, &apierr.NotConfiguredError{What: Name}
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = catalog.General
	}
	d, ok := c.catalog.Lookup(ctx, Name, category)
	if !ok {
		return nil, provider.ErrUnsupported
	}
	typ := d.Ref()
	if typ == "" {
		typ = "top"
	}
	q := url.Values{
		"type":      {typ},
		"page_size": {strconv.Itoa(provider.ClampPageSize(pageSize, MaxPageSize))},
		"key":       {key},
	}
	var resp response
	if err := c.http.GetJSON(ctx, c.baseURL+"/toutiao/index?"+q.Encode(), &resp); err != nil {
		if apierr.IsMalformed(err) {
			slog.Warn("juhe: malformed response", "error", err)
			return nil, nil
		}
		return nil, err
	}
	if resp.ErrorCode != 0 {
		code := strconv.Itoa(resp.ErrorCode)
		if authCodes[resp.ErrorCode] {
			return nil, apierr.NewAuthError(Name, 0, code, resp.Reason)
		}
		return nil, &apierr.TransportError{Provider: Name, Code: code, Message: resp.Reason}
	}
	var result struct {
		Stat string `json:"stat"`
		Data []item `json:"data"`
	}
	if len(resp.Result) == 0 || json.Unmarshal(resp.Result, &result) != nil {
		// Juhe answers "result": null for empty pages.
		return nil, nil
	}
	raw := make([]model.Article, 0, len(result.Data))
	for _, it := range result.Data {
		raw = append(raw, model.Article{
			Title:       it.Title,
			URL:         it.URL,
			ImageURL:    it.Thumbnail,
			PublishedAt: convertDate(it.Date),
			Source:      it.AuthorName,
		})
	}
	return provider.Normalize(raw, d.ID, time.Now()), nil
}

// Search is not offered by Juhe toutiao.
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]model.Article, error) {
	return nil, nil
}

// Categories is the fixed toutiao type list keyed by canonical category.
func Categories() []model.CategoryDescriptor {
	return []model.CategoryDescriptor{
		{ID: catalog.General, Label: "推荐", ProviderCategoryRef: model.StrRef("top")},
		{ID: catalog.Domestic, Label: "国内", ProviderCategoryRef: model.StrRef("guonei")},
		{ID: catalog.World, Label: "国际", ProviderCategoryRef: model.StrRef("guoji")},
		{ID: catalog.Entertainment, Label: "娱乐", ProviderCategoryRef: model.StrRef("yule")},
		{ID: catalog.Sports, Label: "体育", ProviderCategoryRef: model.StrRef("tiyu")},
		{ID: catalog.Military, Label: "军事", ProviderCategoryRef: model.StrRef("junshi")},
		{ID: catalog.Technology, Label: "科技", ProviderCategoryRef: model.StrRef("keji")},
		{ID: catalog.Business, Label: "财经", ProviderCategoryRef: model.StrRef("caijing")},
		{ID: catalog.Game, Label: "游戏", ProviderCategoryRef: model.StrRef("youxi")},
		{ID: catalog.Auto, Label: "汽车", ProviderCategoryRef: model.StrRef("qiche")},
		{ID: catalog.Health, Label: "健康", ProviderCategoryRef: model.StrRef("jiankang")},
	}
}

var beijing = time.FixedZone("CST", 8*3600)

func convertDate(s string) string {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, beijing); err == nil {
		return t.Format(time.RFC3339)
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, beijing); err == nil {
		return t.Format(time.RFC3339)
	}
	return s
}
