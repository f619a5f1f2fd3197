package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"daybrief/internal/config"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	appCfg  config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "daybrief",
	Short:         "News and weather briefings from multiple providers",
	Long:          "Fetches headlines, category news, search results, weather, and daily briefings with provider fallback and windowed caching.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("locale", "", "target locale, e.g. zh-CN or en-US")
	rootCmd.PersistentFlags().String("platform", "", "host platform: desktop, mobile, web")
	_ = viper.BindPFlag("app.locale", rootCmd.PersistentFlags().Lookup("locale"))
	_ = viper.BindPFlag("app.platform", rootCmd.PersistentFlags().Lookup("platform"))
}

func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "daybrief"))
		v.AddConfigPath("configs")
	}
	v.SetEnvPrefix("DAYBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper knows about.
	for _, k := range []string{
		"providers.tianapi.api_key", "providers.juhe.api_key",
		"providers.newsapi.api_key", "providers.openweather.api_key",
		"openai.api_key", "storage.driver", "storage.redis.addr",
	} {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	appCfg.FillDefaults()
	setupLogging(appCfg.App.LogLevel)
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("using config file", "path", used)
	}
}

func setupLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}
