package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds the settings for one run. Values come from ~/.config/costalert/config.yaml,
// then environment variables (THRESHOLD_AMOUNT, SNS_TOPIC_ARN, ...), then CLI flags.
type Config struct {
	ThresholdAmount     string `mapstructure:"threshold_amount"`
	SNSTopicARN         string `mapstructure:"sns_topic_arn"`
	NumServicesToReport int    `mapstructure:"num_services_to_report"`
	WebhookSecret       string `mapstructure:"webhook_secret"`
	Profile             string `mapstructure:"aws_profile"`
	Region              string `mapstructure:"aws_region"`
	Concurrency         int    `mapstructure:"concurrency"`
	SkipInactive        bool   `mapstructure:"skip_inactive"`
	LogLevel            string `mapstructure:"log_level"`
	LogFormat           string `mapstructure:"log_format"`
	LogFile             string `mapstructure:"log_file"`

	threshold decimal.Decimal
}

// Error is a fatal configuration problem found at startup.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

var defaults = map[string]any{
	"threshold_amount":       "",
	"sns_topic_arn":          "",
	"num_services_to_report": 10,
	"webhook_secret":         "",
	"aws_profile":            "",
	"aws_region":             "",
	"concurrency":            1,
	"skip_inactive":          false,
	"log_level":              "info",
	"log_format":             "text",
	"log_file":               "",
}

// DefaultPath is the config file read when no --config flag is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "costalert", "config.yaml")
}

// Load reads the config file and environment. A missing default file is not an error;
// a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)
			if explicit || !missing {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Merge applies CLI flag overrides. Flags take precedence over config defaults.
func (c *Config) Merge(profile, region string) (string, string) {
	if profile != "" {
		c.Profile = profile
	}
	if region != "" {
		c.Region = region
	}
	return c.Profile, c.Region
}

// Validate checks required settings and parses the threshold.
func (c *Config) Validate() error {
	raw := strings.TrimSpace(c.ThresholdAmount)
	if raw == "" {
		return &Error{Field: "THRESHOLD_AMOUNT", Reason: "required"}
	}
	threshold, err := decimal.NewFromString(raw)
	if err != nil {
		return &Error{Field: "THRESHOLD_AMOUNT", Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	c.threshold = threshold

	if strings.TrimSpace(c.SNSTopicARN) == "" {
		return &Error{Field: "SNS_TOPIC_ARN", Reason: "required"}
	}
	if c.NumServicesToReport <= 0 {
		return &Error{Field: "NUM_SERVICES_TO_REPORT", Reason: "must be greater than zero"}
	}
	if c.Concurrency <= 0 {
		return &Error{Field: "CONCURRENCY", Reason: "must be greater than zero"}
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return &Error{Field: "LOG_FORMAT", Reason: fmt.Sprintf("unknown format %q", c.LogFormat)}
	}
	return nil
}

// Threshold returns the parsed threshold. Only meaningful after Validate succeeds.
func (c *Config) Threshold() decimal.Decimal {
	return c.threshold
}
