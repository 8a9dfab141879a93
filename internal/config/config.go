package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// GenerationConfig describes the OpenAI-compatible text generation endpoint.
type GenerationConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	JSONMode bool
}

// MailConfig points at the mail dispatch collaborator.
type MailConfig struct {
	DispatchURL string
	From        string
	VerifyMX    bool
}

// MinioConfig holds the optional report export bucket settings.
type MinioConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	Region     string
	UseSSL     bool
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL         string
	JWTSecret           string
	Port                string
	TokenTTL            time.Duration
	LogLevel            string
	LogFile             string
	Generation          GenerationConfig
	WebsiteFetchTimeout time.Duration
	Mail                MailConfig
	RateLimitAnalyze    RateLimitConfig
	Minio               MinioConfig
}

// fileConfig is the optional YAML file named by CONFIG_FILE. Environment variables
// take precedence over its values.
type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret"`
		JWTTTL    string `yaml:"jwtTTL"`
	} `yaml:"auth"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Generation struct {
		APIKey   string `yaml:"apiKey"`
		BaseURL  string `yaml:"baseURL"`
		Model    string `yaml:"model"`
		Timeout  string `yaml:"timeout"`
		JSONMode *bool  `yaml:"jsonMode"`
	} `yaml:"generation"`
	Website struct {
		FetchTimeout string `yaml:"fetchTimeout"`
	} `yaml:"website"`
	Mail struct {
		DispatchURL string `yaml:"dispatchURL"`
		From        string `yaml:"from"`
		VerifyMX    *bool  `yaml:"verifyMX"`
	} `yaml:"mail"`
	RateLimit struct {
		Analyze string `yaml:"analyze"`
	} `yaml:"rateLimit"`
	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     *bool  `yaml:"useSSL"`
	} `yaml:"minio"`
}

func (f fileConfig) values() map[string]string {
	return map[string]string{
		"PORT":                  f.Server.Port,
		"DATABASE_URL":          f.Database.URL,
		"JWT_SECRET":            f.Auth.JWTSecret,
		"JWT_TTL":               f.Auth.JWTTTL,
		"LOG_LEVEL":             f.Log.Level,
		"LOG_FILE":              f.Log.File,
		"GENERATION_API_KEY":    f.Generation.APIKey,
		"GENERATION_BASE_URL":   f.Generation.BaseURL,
		"GENERATION_MODEL":      f.Generation.Model,
		"GENERATION_TIMEOUT":    f.Generation.Timeout,
		"GENERATION_JSON_MODE":  formatBool(f.Generation.JSONMode),
		"WEBSITE_FETCH_TIMEOUT": f.Website.FetchTimeout,
		"MAIL_DISPATCH_URL":     f.Mail.DispatchURL,
		"MAIL_FROM":             f.Mail.From,
		"MAIL_VERIFY_MX":        formatBool(f.Mail.VerifyMX),
		"RATE_LIMIT_ANALYZE":    f.RateLimit.Analyze,
		"MINIO_ENDPOINT":        f.Minio.Endpoint,
		"MINIO_ACCESS_KEY":      f.Minio.AccessKey,
		"MINIO_SECRET_KEY":      f.Minio.SecretKey,
		"MINIO_BUCKET":          f.Minio.BucketName,
		"MINIO_REGION":          f.Minio.Region,
		"MINIO_USE_SSL":         formatBool(f.Minio.UseSSL),
	}
}

// Load reads configuration from environment variables, falling back to the YAML
// file named by CONFIG_FILE and then to defaults.
func Load() (*Config, error) {
	file := map[string]string{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fc, err := readFile(path)
		if err != nil {
			return nil, err
		}
		file = fc.values()
	}
	get := func(key, fallback string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		if val := file[key]; val != "" {
			return val
		}
		return fallback
	}

	cfg := &Config{
		DatabaseURL: get("DATABASE_URL", ""),
		JWTSecret:   get("JWT_SECRET", "dev-secret"),
		Port:        get("PORT", "8080"),
		TokenTTL:    parseDuration(get("JWT_TTL", "24h"), 24*time.Hour),
		LogLevel:    get("LOG_LEVEL", "info"),
		LogFile:     get("LOG_FILE", ""),
		Generation: GenerationConfig{
			APIKey:   get("GENERATION_API_KEY", ""),
			BaseURL:  get("GENERATION_BASE_URL", ""),
			Model:    get("GENERATION_MODEL", "gpt-4o-mini"),
			Timeout:  parseDuration(get("GENERATION_TIMEOUT", "60s"), 60*time.Second),
			JSONMode: parseBool(get("GENERATION_JSON_MODE", "true")),
		},
		WebsiteFetchTimeout: parseDuration(get("WEBSITE_FETCH_TIMEOUT", "10s"), 10*time.Second),
		Mail: MailConfig{
			DispatchURL: get("MAIL_DISPATCH_URL", ""),
			From:        get("MAIL_FROM", ""),
			VerifyMX:    parseBool(get("MAIL_VERIFY_MX", "false")),
		},
		Minio: MinioConfig{
			Endpoint:   get("MINIO_ENDPOINT", ""),
			AccessKey:  get("MINIO_ACCESS_KEY", ""),
			SecretKey:  get("MINIO_SECRET_KEY", ""),
			BucketName: get("MINIO_BUCKET", ""),
			Region:     get("MINIO_REGION", "us-east-1"),
			UseSSL:     parseBool(get("MINIO_USE_SSL", "false")),
		},
	}

	rl, err := parseRateLimit(get("RATE_LIMIT_ANALYZE", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_ANALYZE value: %w", err)
	}
	cfg.RateLimitAnalyze = rl

	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseBool(input string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(input))
	return err == nil && b
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
