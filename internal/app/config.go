package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/pizzaria/internal/domain/discount"
)

const defaultAddr = "0.0.0.0:3000"

// Config holds the complete application configuration, loadable from
// environment variables (PIZZARIA_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:3000" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL (PIZZARIA_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	Pricing     PricingConfig
	Receipt     ReceiptConfig
	Kafka       KafkaConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// PricingConfig holds the order discount rule. Amounts are decimal strings.
type PricingConfig struct {
	Threshold string `default:"100"  usage:"Subtotal above which the discount applies"`
	Rate      string `default:"0.10" usage:"Discount rate applied to the subtotal"`
}

// ReceiptConfig controls receipt rendering.
type ReceiptConfig struct {
	StoreName string `default:"PIZZARIA GALO DOIDO" usage:"Store name printed on receipts" flag:"store-name"`
	Timezone  string `default:"Local" usage:"IANA time zone for receipt dates"`
}

// KafkaConfig enables order event publishing when Brokers is set.
type KafkaConfig struct {
	Brokers []string `usage:"Kafka brokers; empty disables order events"`
	Topic   string   `default:"pizzaria.orders" usage:"Topic for order.placed events"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// DiscountRule parses the configured pricing rule.
func (c *Config) DiscountRule() (discount.Rule, error) {
	return discount.Parse(c.Pricing.Threshold, c.Pricing.Rate)
}

// Location resolves the receipt time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Receipt.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "load time zone %q", c.Receipt.Timezone)
	}
	return loc, nil
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	return loadConfig(false)
}

func loadConfig(skipFlags bool) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: skipFlags,
		EnvPrefix: "PIZZARIA",
		Files:     []string{"config.yaml", "/etc/pizzaria/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL is required: set PIZZARIA_DATABASE_URL or DATABASE_URL")
	}
	if _, err := c.DiscountRule(); err != nil {
		return errors.Wrap(err, "pricing")
	}
	if _, err := c.Location(); err != nil {
		return errors.Wrap(err, "receipt")
	}
	return nil
}

// applyPlatformDefaults maps the unprefixed DATABASE_URL and PORT variables
// set by hosting platforms.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
