// Package provider defines the contracts shared by the news and weather adapters.
package provider

import (
	"context"
	"errors"

	"daybrief/internal/model"
)

// Capability is a kind of request a news provider may serve.
type Capability int

const (
	CapHeadlines Capability = iota
	CapCategory
	CapSearch
)

func (c Capability) String() string {
	switch c {
	case CapHeadlines:
		return "headlines"
	case CapCategory:
		return "category"
	case CapSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Family groups providers for the "is configured" predicates shown to users.
type Family string

const (
	FamilyDomestic      Family = "domestic"
	FamilyInternational Family = "international"
	FamilyWeather       Family = "weather"
)

// NewsProvider is implemented by every news adapter. Adapters hold no state across calls.
//
// Search on a provider without CapSearch returns an empty result and no error.
type NewsProvider interface {
	Name() string
	Family() Family
	Configured() bool
	Supports(c Capability) bool
	Headlines(ctx context.Context, category string, pageSize int) ([]model.Article, error)
	Search(ctx context.Context, query string, pageSize int) ([]model.Article, error)
	Categories(ctx context.Context) []model.CategoryDescriptor
}

// WeatherProvider returns current conditions for a location.
type WeatherProvider interface {
	Name() string
	Configured() bool
	Current(ctx context.Context, loc model.Location) (model.WeatherSnapshot, error)
}

// ErrUnsupported is returned when a provider cannot serve a request at all, e.g. an
// unknown category. It asks the caller to try the next provider and is not a failure.
var ErrUnsupported = errors.New("not supported by provider")

// DefaultPageSize is used when the caller does not ask for a size.
const DefaultPageSize = 20

// ClampPageSize bounds n to (0, max].
func ClampPageSize(n, max int) int {
	if n <= 0 {
		n = DefaultPageSize
	}
	if n > max {
		return max
	}
	return n
}

// KeyFunc resolves a provider's API key at call time; "" means unconfigured.
type KeyFunc func() string

// StaticKey returns a KeyFunc for a fixed key.
func StaticKey(key string) KeyFunc { return func() string { return key } }
