// Package report builds the daily morning and evening digests.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"daybrief/internal/ai"
	"daybrief/internal/apierr"
	"daybrief/internal/cache"
	"daybrief/internal/model"
	"daybrief/internal/news"

	"golang.org/x/sync/errgroup"
)

// maxParallel bounds concurrent category fetches; rate-limited providers serialize anyway.
const maxParallel = 4

// News is the part of the orchestrator reports depend on.
type News interface {
	Headlines(ctx context.Context, req news.Request) ([]model.Article, error)
	Category(ctx context.Context, req news.Request) ([]model.Article, error)
}

type Options struct {
	Locale      string
	Categories  []string // morning report categories
	PerCategory int
	Language    string
	Summarizer  ai.Summarizer // optional
}

type Service struct {
	news  News
	cache *cache.Store
	loc   *time.Location
	opts  Options
}

func NewService(n News, store *cache.Store, loc *time.Location, opts Options) *Service {
	if loc == nil {
		loc = time.Local
	}
	if opts.PerCategory <= 0 {
		opts.PerCategory = 5
	}
	return &Service{news: n, cache: store, loc: loc, opts: opts}
}

// Get returns the report of type t for today, cached once per calendar day.
func (s *Service) Get(ctx context.Context, t model.ReportType, skipCache bool) (model.Report, error) {
	switch t {
	case model.ReportMorning:
		return s.Morning(ctx, skipCache)
	case model.ReportEvening:
		return s.Evening(ctx, skipCache)
	default:
		return model.Report{}, fmt.Errorf("report: unknown type %q", t)
	}
}

// Morning returns the per-category digest. Categories that fail are listed in
// Report.Failures; if every category fails the combined failure is returned.
func (s *Service) Morning(ctx context.Context, skipCache bool) (model.Report, error) {
	return s.cached(ctx, model.ReportMorning, skipCache, s.buildMorning)
}

// Evening returns the top headlines of the day.
func (s *Service) Evening(ctx context.Context, skipCache bool) (model.Report, error) {
	return s.cached(ctx, model.ReportEvening, skipCache, s.buildEvening)
}

func (s *Service) cached(ctx context.Context, t model.ReportType, skip bool, build func(ctx context.Context, now time.Time, skip bool) (model.Report, error)) (model.Report, error) {
	now := s.cache.Now().In(s.loc)
	w := cache.DayWindow(now)
	key := cache.Fingerprint("report:"+string(t), w, s.opts.Locale)
	return cache.FetchExpiring(ctx, s.cache, key, skip, func(ctx context.Context) (model.Report, time.Time, error) {
		r, err := build(ctx, now, skip)
		if err != nil {
			return r, time.Time{}, err
		}
		r.Type = t
		r.Date = w.Date
		r.GeneratedAt = now
		s.summarize(ctx, &r)
		return r, expiry(r, now, w), nil
	})
}

// expiry keeps a complete report for the whole day. A partial one is retried
// once the next news window opens so failed categories get another chance.
func expiry(r model.Report, now time.Time, day cache.Window) time.Time {
	if !r.Partial() {
		return day.ExpiresAt
	}
	if next := cache.NewsWindow(now).ExpiresAt; next.Before(day.ExpiresAt) {
		return next
	}
	return day.ExpiresAt
}

func (s *Service) buildMorning(ctx context.Context, _ time.Time, skip bool) (model.Report, error) {
	r := model.Report{Categories: map[string][]model.Article{}, Failures: map[string]string{}}
	var (
		mu       sync.Mutex
		failures []apierr.ProviderFailure
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for _, cat := range s.opts.Categories {
		cat := strings.TrimSpace(cat)
		if cat == "" {
			continue
		}
		g.Go(func() error {
			arts, err := s.news.Category(gctx, news.Request{
				Locale:    s.opts.Locale,
				Category:  cat,
				PageSize:  s.opts.PerCategory,
				SkipCache: skip,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("report: category failed", "category", cat, "error", err)
				r.Failures[cat] = err.Error()
				failures = append(failures, apierr.ProviderFailure{Provider: cat, Err: err})
				return nil
			}
			if len(arts) > s.opts.PerCategory {
				arts = arts[:s.opts.PerCategory]
			}
			if len(arts) > 0 {
				r.Categories[cat] = arts
			}
			return nil
		})
	}
	_ = g.Wait()
	if len(failures) > 0 && len(r.Categories) == 0 && len(failures) == len(nonEmpty(s.opts.Categories)) {
		sort.Slice(failures, func(i, j int) bool { return failures[i].Provider < failures[j].Provider })
		// Not-configured is the same for every category; surface it directly.
		if apierr.IsNotConfigured(failures[0].Err) {
			return model.Report{}, failures[0].Err
		}
		return model.Report{}, &apierr.AggregateError{Failures: failures}
	}
	return r, nil
}

func (s *Service) buildEvening(ctx context.Context, _ time.Time, skip bool) (model.Report, error) {
	arts, err := s.news.Headlines(ctx, news.Request{
		Locale:    s.opts.Locale,
		PageSize:  model.EveningHeadlines,
		SkipCache: skip,
	})
	if err != nil {
		return model.Report{}, err
	}
	if len(arts) > model.EveningHeadlines {
		arts = arts[:model.EveningHeadlines]
	}
	return model.Report{Headlines: arts}, nil
}

func (s *Service) summarize(ctx context.Context, r *model.Report) {
	if s.opts.Summarizer == nil {
		return
	}
	all := append([]model.Article(nil), r.Headlines...)
	for _, cat := range s.opts.Categories {
		all = append(all, r.Categories[cat]...)
	}
	sum, err := s.opts.Summarizer.SummarizeDigest(ctx, r.Type, all, s.opts.Language)
	if err != nil {
		slog.Warn("report: summary failed", "type", r.Type, "error", err)
		return
	}
	r.Summary = sum
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
