package cmd

import (
	"fmt"
	"strings"
	"time"

	"daybrief/internal/ai"
	"daybrief/internal/cache"
	"daybrief/internal/catalog"
	"daybrief/internal/config"
	"daybrief/internal/httpjson"
	"daybrief/internal/juhe"
	"daybrief/internal/news"
	"daybrief/internal/newsapi"
	"daybrief/internal/openweather"
	"daybrief/internal/platform"
	"daybrief/internal/provider"
	"daybrief/internal/ratelimit"
	"daybrief/internal/report"
	"daybrief/internal/settings"
	"daybrief/internal/storage"
	"daybrief/internal/tianapi"
	"daybrief/internal/weather"
)

// app holds the wired services shared by subcommands.
type app struct {
	cfg      config.Config
	loc      *time.Location
	platform *platform.Platform
	settings *settings.File
	resolver *config.Resolver
	news     *news.Service
	weather  *weather.Service
	reports  *report.Service
}

func newApp(cfg config.Config) (*app, error) {
	loc, err := loadLocation(cfg.App.Timezone)
	if err != nil {
		return nil, err
	}
	kind, err := platform.ParseKind(cfg.App.Platform)
	if err != nil {
		return nil, err
	}
	st, err := settings.Open(cfg.Settings.Path)
	if err != nil {
		return nil, err
	}
	plat, err := platform.New(kind, platform.Options{
		Driver: cfg.Storage.Driver,
		Storage: storage.Options{
			Path: cfg.Storage.Path,
			Redis: storage.RedisOptions{
				Addr:     cfg.Storage.Redis.Addr,
				Username: cfg.Storage.Redis.Username,
				Password: cfg.Storage.Redis.Password,
				DB:       cfg.Storage.Redis.DB,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	resolver := config.NewResolver(st, cfg.Defaults())
	keyFor := func(name config.KeyName) provider.KeyFunc {
		return func() string { return resolver.Resolve(name) }
	}
	store := cache.New(plat.Store, nil)
	cat := catalog.New()
	p := cfg.Providers

	tianGap, err := parseGap(p.TianAPI.MinGap)
	if err != nil {
		return nil, fmt.Errorf("providers.tianapi.min_gap: %w", err)
	}
	juheGap, err := parseGap(p.Juhe.MinGap)
	if err != nil {
		return nil, fmt.Errorf("providers.juhe.min_gap: %w", err)
	}
	newsGap, err := parseGap(p.NewsAPI.MinGap)
	if err != nil {
		return nil, fmt.Errorf("providers.newsapi.min_gap: %w", err)
	}

	tian := tianapi.NewClient(p.TianAPI.BaseURL, keyFor(config.TianAPIKey),
		ratelimit.New(tianapi.Name, httpjson.New(tianapi.Name, plat.Transport), tianGap), cat)
	jh := juhe.NewClient(p.Juhe.BaseURL, keyFor(config.JuheKey),
		ratelimit.New(juhe.Name, httpjson.New(juhe.Name, plat.Transport), juheGap), cat)
	na := newsapi.NewClient(p.NewsAPI.BaseURL, keyFor(config.NewsAPIKey),
		ratelimit.New(newsapi.Name, httpjson.New(newsapi.Name, plat.Transport), newsGap), cat,
		p.NewsAPI.Country, p.NewsAPI.Language)
	ow := openweather.NewClient(p.OpenWeather.BaseURL, keyFor(config.OpenWeatherKey),
		httpjson.New(openweather.Name, plat.Transport), p.OpenWeather.Language)

	newsSvc := news.NewService(store, loc, tian, jh, na)

	opts := report.Options{
		Locale:      cfg.App.Locale,
		Categories:  cfg.Report.MorningCategories,
		PerCategory: cfg.Report.PerCategory,
		Language:    cfg.Report.Language,
	}
	summarizer, err := ai.NewOpenAI(ai.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL})
	if err != nil {
		plat.Close()
		return nil, err
	}
	if summarizer != nil {
		opts.Summarizer = summarizer
	}

	return &app{
		cfg:      cfg,
		loc:      loc,
		platform: plat,
		settings: st,
		resolver: resolver,
		news:     newsSvc,
		weather:  weather.NewService(ow, store, loc),
		reports:  report.NewService(newsSvc, store, loc, opts),
	}, nil
}

func (a *app) Close() error {
	return a.platform.Close()
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("app.timezone: %w", err)
	}
	return loc, nil
}

// parseGap parses a min_gap duration; empty disables throttling.
func parseGap(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
