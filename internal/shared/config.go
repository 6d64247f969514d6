package shared

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// ChromeUserAgent is the desktop browser string sent to the reviews page.
const ChromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	BusinessCID  string
	BusinessName string

	ReviewsURLTemplate string
	UserAgent          string
	InsecureSkipVerify bool
	FetchTimeout       time.Duration
	FetchRPS           int

	CacheBackend    string
	CacheDir        string
	CacheFilePrefix string
	CacheTTL        time.Duration
	CacheErrors     bool

	RedisAddr string
	RedisPass string
	RedisDB   int
	MySQLDSN  string

	WarmWorkers int
}

func defaults(v *viper.Viper) {
	v.SetDefault("app_env", "prod")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("business_cid", "16890121041992214538")
	v.SetDefault("business_name", "HiveAgile")
	v.SetDefault("reviews_url_template", "https://search.google.com/local/reviews?placeid={cid}")
	v.SetDefault("user_agent", ChromeUserAgent)
	v.SetDefault("insecure_skip_verify", false)
	v.SetDefault("fetch_timeout", "20s")
	v.SetDefault("fetch_rps", 5)
	v.SetDefault("cache_backend", "file")
	v.SetDefault("cache_dir", ".")
	v.SetDefault("cache_file_prefix", "google_cid_reviews_cache")
	v.SetDefault("cache_ttl_seconds", 86400)
	v.SetDefault("cache_errors", false)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("mysql_dsn", "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4&loc=UTC")
	v.SetDefault("warm_workers", 4)
	v.SetDefault("config_file", "")
}

// Load reads configuration from the environment and, when CONFIG_FILE is set,
// from that file. Environment variables win over file values.
func Load() (Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if f := v.GetString("config_file"); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", f, err)
		}
	}

	c := Config{
		AppEnv:             v.GetString("app_env"),
		HTTPAddr:           v.GetString("http_addr"),
		MetricsAddr:        v.GetString("metrics_addr"),
		BusinessCID:        v.GetString("business_cid"),
		BusinessName:       v.GetString("business_name"),
		ReviewsURLTemplate: v.GetString("reviews_url_template"),
		UserAgent:          v.GetString("user_agent"),
		InsecureSkipVerify: v.GetBool("insecure_skip_verify"),
		FetchTimeout:       v.GetDuration("fetch_timeout"),
		FetchRPS:           v.GetInt("fetch_rps"),
		CacheBackend:       strings.ToLower(strings.TrimSpace(v.GetString("cache_backend"))),
		CacheDir:           v.GetString("cache_dir"),
		CacheFilePrefix:    v.GetString("cache_file_prefix"),
		CacheTTL:           time.Duration(v.GetInt("cache_ttl_seconds")) * time.Second,
		CacheErrors:        v.GetBool("cache_errors"),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPass:          v.GetString("redis_password"),
		RedisDB:            v.GetInt("redis_db"),
		MySQLDSN:           v.GetString("mysql_dsn"),
		WarmWorkers:        v.GetInt("warm_workers"),
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LogWarnings reports risky settings. Call it once the process logger is set up.
func (c Config) LogWarnings(l zerolog.Logger) {
	if c.InsecureSkipVerify {
		l.Warn().Str("url_template", c.ReviewsURLTemplate).
			Msg("INSECURE_SKIP_VERIFY is set: TLS certificates of the reviews host are not verified")
	}
}

func (c Config) validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must not be negative, got %s", c.CacheTTL)
	}
	if !strings.Contains(c.ReviewsURLTemplate, "{cid}") {
		return fmt.Errorf("REVIEWS_URL_TEMPLATE must contain {cid}: %q", c.ReviewsURLTemplate)
	}
	if c.WarmWorkers <= 0 {
		return fmt.Errorf("WARM_WORKERS must be positive, got %d", c.WarmWorkers)
	}
	return nil
}
