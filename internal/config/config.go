package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Run modes. Dry mode is an explicit policy, not an inferred fallback: it
// keeps the pipeline executable without a configured vault or live
// credentials.
const (
	ModeLive = "live"
	ModeDry  = "dry"
)

// Config is the process-wide configuration, constructed once at startup and
// treated as read-only afterwards.
type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Vault         Vault         `mapstructure:",squash"`
	OpenAI        OpenAI        `mapstructure:",squash"`
	Platforms     Platforms     `mapstructure:",squash"`
	IngestionSync IngestionSync `mapstructure:",squash"`
	FunctionKey   string        `mapstructure:"function_key"`
	RunMode       string        `mapstructure:"run_mode"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Vault struct {
	Name  string `mapstructure:"key_vault_name"`
	Token string `mapstructure:"key_vault_token"`
}

type OpenAI struct {
	APIKey   string `mapstructure:"openai_api_key"`
	Endpoint string `mapstructure:"openai_endpoint"`
	Model    string `mapstructure:"openai_model"`
}

type Platforms struct {
	MetaURL                 string `mapstructure:"meta_url"`
	GoogleAdsURL            string `mapstructure:"google_ads_url"`
	SearchConsoleURL        string `mapstructure:"search_console_url"`
	AnalyticsDataURL        string `mapstructure:"analytics_data_url"`
	TikTokURL               string `mapstructure:"tiktok_url"`
	LinkedInURL             string `mapstructure:"linkedin_url"`
	RedditURL               string `mapstructure:"reddit_url"`
	MicrosoftURL            string `mapstructure:"microsoft_url"`
	MicrosoftDeveloperToken string `mapstructure:"microsoft_developer_token"`
	MicrosoftCustomerID     string `mapstructure:"microsoft_customer_id"`
}

type IngestionSync struct {
	CronSchedule        string   `mapstructure:"ingestion_sync_cron"`
	Pairs               []string `mapstructure:"ingestion_sync_pairs"`
	RequestDelaySeconds int      `mapstructure:"ingestion_sync_request_delay_seconds"`
	MaxConcurrentJobs   int      `mapstructure:"ingestion_sync_max_concurrent_jobs"`
	Enabled             bool     `mapstructure:"ingestion_sync_enabled"`
}

// DryRun reports whether the service runs without live external credentials.
func (c *Config) DryRun() bool {
	return c.RunMode != ModeLive
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("RUN_MODE", ModeDry)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/marketing")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("KEY_VAULT_NAME", "")
	viper.SetDefault("KEY_VAULT_TOKEN", "")

	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_ENDPOINT", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o")

	viper.SetDefault("FUNCTION_KEY", "")

	viper.SetDefault("META_URL", "https://graph.facebook.com/v18.0")
	viper.SetDefault("GOOGLE_ADS_URL", "https://googleads.googleapis.com/v15")
	viper.SetDefault("SEARCH_CONSOLE_URL", "https://www.googleapis.com/webmasters/v3")
	viper.SetDefault("ANALYTICS_DATA_URL", "https://analyticsdata.googleapis.com/v1beta")
	viper.SetDefault("TIKTOK_URL", "https://business-api.tiktok.com/open_api/v1.3")
	viper.SetDefault("LINKEDIN_URL", "https://api.linkedin.com/v2")
	viper.SetDefault("REDDIT_URL", "https://ads-api.reddit.com/api/v2.0")
	viper.SetDefault("MICROSOFT_URL", "https://campaign.api.bingads.microsoft.com/Api/Advertiser/CampaignManagement/v13")
	viper.SetDefault("MICROSOFT_DEVELOPER_TOKEN", "")
	viper.SetDefault("MICROSOFT_CUSTOMER_ID", "")

	viper.SetDefault("INGESTION_SYNC_CRON", "0 3 * * *")
	viper.SetDefault("INGESTION_SYNC_PAIRS", "")
	viper.SetDefault("INGESTION_SYNC_REQUEST_DELAY_SECONDS", 2)
	viper.SetDefault("INGESTION_SYNC_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("INGESTION_SYNC_ENABLED", false)
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("config: no readable .env file, relying on environment: ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.RunMode != ModeLive && config.RunMode != ModeDry {
		logrus.Warnf("config: unknown run mode %q, falling back to dry", config.RunMode)
		config.RunMode = ModeDry
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("config: could not determine working directory: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("config: loaded environment from ", location)
			return
		}
	}
}
