package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"timezone"` // IANA name; empty or "Local" uses the host zone
	Locale   string `mapstructure:"locale"`   // e.g. zh-CN, en-US
	Platform string `mapstructure:"platform"` // desktop, mobile, web
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig selects the persistent key-value backend for cached results.
type StorageConfig struct {
	Driver string      `mapstructure:"driver"` // sqlite, bolt, redis, memory; empty = platform default
	Path   string      `mapstructure:"path"`   // file path for sqlite/bolt
	Redis  RedisConfig `mapstructure:"redis"`
}

// SettingsConfig locates the mutable per-installation settings file.
type SettingsConfig struct {
	Path string `mapstructure:"path"`
}

// ProviderConfig controls a single REST provider.
type ProviderConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	MinGap   string `mapstructure:"min_gap"` // duration string, e.g. "380ms"; empty = not rate limited
	Country  string `mapstructure:"country"`
	Language string `mapstructure:"language"`
}

// ProvidersConfig groups the configured providers.
type ProvidersConfig struct {
	TianAPI     ProviderConfig `mapstructure:"tianapi"`
	Juhe        ProviderConfig `mapstructure:"juhe"`
	NewsAPI     ProviderConfig `mapstructure:"newsapi"`
	OpenWeather ProviderConfig `mapstructure:"openweather"`
}

// ReportConfig controls morning/evening digests.
type ReportConfig struct {
	MorningCategories []string `mapstructure:"morning_categories"`
	PerCategory       int      `mapstructure:"per_category"`
	Language          string   `mapstructure:"language"`
	ArchiveDir        string   `mapstructure:"archive_dir"` // serve writes briefings here when set
}

// OpenAIConfig enables AI summaries for reports.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// ServeConfig controls the long-running service.
type ServeConfig struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
	Interval    string `mapstructure:"interval"` // duration string, e.g. "15m"
}

// Config is the top-level configuration structure.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Settings  SettingsConfig  `mapstructure:"settings"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Report    ReportConfig    `mapstructure:"report"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Serve     ServeConfig     `mapstructure:"serve"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "Local"
	}
	if c.App.Locale == "" {
		c.App.Locale = "zh-CN"
	}
	if c.App.Platform == "" {
		c.App.Platform = "desktop"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(xdg.DataHome, "daybrief", "cache.db")
	}
	if c.Storage.Redis.Addr == "" {
		c.Storage.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Settings.Path == "" {
		c.Settings.Path = filepath.Join(xdg.ConfigHome, "daybrief", "settings.yaml")
	}

	p := &c.Providers
	if p.TianAPI.BaseURL == "" {
		p.TianAPI.BaseURL = "https://apis.tianapi.com"
	}
	if p.TianAPI.MinGap == "" {
		// 3 requests per second ceiling, with margin
		p.TianAPI.MinGap = "380ms"
	}
	if p.TianAPI.APIKey == "" {
		p.TianAPI.APIKey = BuildTianAPIKey
	}
	if p.Juhe.BaseURL == "" {
		p.Juhe.BaseURL = "http://v.juhe.cn"
	}
	if p.Juhe.APIKey == "" {
		p.Juhe.APIKey = BuildJuheKey
	}
	if p.NewsAPI.BaseURL == "" {
		p.NewsAPI.BaseURL = "https://newsapi.org"
	}
	if p.NewsAPI.Country == "" {
		p.NewsAPI.Country = "us"
	}
	if p.NewsAPI.APIKey == "" {
		p.NewsAPI.APIKey = BuildNewsAPIKey
	}
	if p.OpenWeather.BaseURL == "" {
		p.OpenWeather.BaseURL = "https://api.openweathermap.org"
	}
	if p.OpenWeather.Language == "" {
		p.OpenWeather.Language = "zh_cn"
	}
	if p.OpenWeather.APIKey == "" {
		p.OpenWeather.APIKey = BuildOpenWeatherKey
	}

	if len(c.Report.MorningCategories) == 0 {
		c.Report.MorningCategories = []string{"general", "technology", "business", "sports", "entertainment"}
	}
	if c.Report.PerCategory == 0 {
		c.Report.PerCategory = 5
	}
	if c.Report.Language == "" {
		c.Report.Language = c.App.Locale
	}
	if c.Serve.MetricsAddr == "" {
		c.Serve.MetricsAddr = ":9464"
	}
	if c.Serve.Interval == "" {
		c.Serve.Interval = "15m"
	}
}

// Defaults returns the static API key defaults keyed by provider key name.
func (c *Config) Defaults() map[KeyName]string {
	return map[KeyName]string{
		TianAPIKey:     c.Providers.TianAPI.APIKey,
		JuheKey:        c.Providers.Juhe.APIKey,
		NewsAPIKey:     c.Providers.NewsAPI.APIKey,
		OpenWeatherKey: c.Providers.OpenWeather.APIKey,
	}
}
