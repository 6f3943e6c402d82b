package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Pricing struct {
		TaxRate string `koanf:"tax_rate"` // decimal string, e.g. "0.12"
	} `koanf:"pricing"`

	Catalog struct {
		BaseURL  string        `koanf:"base_url"`
		Timeout  time.Duration `koanf:"timeout"`
		CacheTTL time.Duration `koanf:"cache_ttl"`
	} `koanf:"catalog"`

	Sales struct {
		BaseURL string        `koanf:"base_url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"sales"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Rabbit struct {
		URL        string `koanf:"url"`
		Exchange   string `koanf:"exchange"`
		RoutingKey string `koanf:"routing_key"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers    []string `koanf:"brokers"`
		GroupID    string   `koanf:"group_id"`
		StockTopic string   `koanf:"stock_topic"`
	} `koanf:"kafka"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		Issuer    string        `koanf:"issuer"`
		Audience  string        `koanf:"audience"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"security"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix POSAPI_, nested with __)
	// e.g. POSAPI_SALES__BASE_URL, POSAPI_REDIS__PASSWORD
	if err := k.Load(env.Provider("POSAPI_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "POSAPI_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url required")
	}
	if c.Sales.BaseURL == "" {
		return fmt.Errorf("sales.base_url required")
	}
	if _, err := c.TaxRate(); err != nil {
		return err
	}
	return nil
}

// TaxRate parses pricing.tax_rate into an exact decimal.
// Kept as a string in config so 0.12 stays 0.12 and never a float approximation.
func (c Config) TaxRate() (decimal.Decimal, error) {
	raw := c.Pricing.TaxRate
	if raw == "" {
		raw = "0.12"
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("pricing.tax_rate: %w", err)
	}
	if rate.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("pricing.tax_rate must be non-negative")
	}
	return rate, nil
}
