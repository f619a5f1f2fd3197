// Package weather serves current conditions with at most one provider call per place per day.
package weather

import (
	"context"
	"errors"
	"time"

	"daybrief/internal/apierr"
	"daybrief/internal/cache"
	"daybrief/internal/metrics"
	"daybrief/internal/model"
	"daybrief/internal/provider"
)

// ErrNoLocation is returned when neither coordinates nor a city were given.
var ErrNoLocation = errors.New("weather: location required")

type Service struct {
	provider provider.WeatherProvider
	cache    *cache.Store
	loc      *time.Location
}

func NewService(p provider.WeatherProvider, store *cache.Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{provider: p, cache: store, loc: loc}
}

// Configured reports whether the weather provider has a key.
func (s *Service) Configured() bool {
	return s.provider != nil && s.provider.Configured()
}

// Current returns the weather for where. Results are cached per calendar day and location.
func (s *Service) Current(ctx context.Context, where model.Location, skipCache bool) (model.WeatherSnapshot, error) {
	if !s.Configured() {
		return model.WeatherSnapshot{}, &apierr.NotConfiguredError{What: "weather"}
	}
	if where.Empty() {
		return model.WeatherSnapshot{}, ErrNoLocation
	}
	w := cache.DayWindow(s.cache.Now().In(s.loc))
	key := cache.Fingerprint("weather", w, s.provider.Name(), where.Key())
	return cache.Fetch(ctx, s.cache, key, w.ExpiresAt, skipCache, func(ctx context.Context) (model.WeatherSnapshot, error) {
		snap, err := s.provider.Current(ctx, where)
		outcome := "ok"
		switch {
		case apierr.IsAuth(err):
			outcome = "auth"
		case err != nil:
			outcome = "error"
		}
		metrics.ProviderRequests.WithLabelValues(s.provider.Name(), outcome).Inc()
		return snap, err
	})
}
