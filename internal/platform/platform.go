// Package platform picks the host-specific low-level services once at startup:
// HTTP transport, persistent key-value storage, and notifications.
package platform

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"daybrief/internal/httpjson"
	"daybrief/internal/storage"
)

// Kind is the host environment.
type Kind string

const (
	Desktop Kind = "desktop"
	Mobile  Kind = "mobile"
	Web     Kind = "web"
)

// ParseKind validates a platform name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Desktop, Mobile, Web:
		return k, nil
	default:
		return "", fmt.Errorf("platform: unknown kind %q (want desktop, mobile, or web)", s)
	}
}

// Notifier delivers user-facing notifications.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Platform bundles the services selected for one host.
type Platform struct {
	Kind      Kind
	Transport httpjson.Transport
	Store     storage.KV
	Notifier  Notifier
}

// Options configures New.
type Options struct {
	Driver  string // overrides the platform's default storage driver
	Storage storage.Options
}

// DefaultDriver returns the storage backend native to k.
func DefaultDriver(k Kind) string {
	switch k {
	case Mobile:
		return storage.DriverBolt
	case Web:
		return storage.DriverRedis
	default:
		return storage.DriverSQLite
	}
}

// New builds the platform for k.
func New(k Kind, opts Options) (*Platform, error) {
	driver := opts.Driver
	if strings.TrimSpace(driver) == "" {
		driver = DefaultDriver(k)
	}
	kv, err := storage.Open(driver, opts.Storage)
	if err != nil {
		return nil, err
	}
	return &Platform{
		Kind:      k,
		Transport: transport(k),
		Store:     kv,
		Notifier:  LogNotifier{Kind: k},
	}, nil
}

// Close releases the platform's store.
func (p *Platform) Close() error {
	if p == nil || p.Store == nil {
		return nil
	}
	return p.Store.Close()
}

func transport(k Kind) *http.Client {
	// Mobile networks are slower; give them more headroom.
	timeout := 15 * time.Second
	if k == Mobile {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	Kind Kind
}

func (n LogNotifier) Notify(_ context.Context, title, body string) error {
	slog.Info("notify", "platform", n.Kind, "title", title, "body", body)
	return nil
}
