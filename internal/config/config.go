package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration. Every field has an env override
// applied in main; the YAML file is optional.
type Config struct {
	DatabaseURL string `yaml:"database_url"`
	APIPort     int    `yaml:"api_port"`

	// RPCs maps chain name to JSON-RPC endpoint. Chains without an
	// endpoint are skipped by the indexer but still served by the API.
	RPCs map[string]string `yaml:"rpcs"`

	CoinGeckoURL string  `yaml:"coingecko_url"`
	CoinGeckoRPS float64 `yaml:"coingecko_rps"`

	// RateLimitRPS caps requests per second per client IP on the query
	// surface. Zero or negative disables the limiter.
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	GetlogsInterval time.Duration `yaml:"getlogs_interval"`
	PricesInterval  time.Duration `yaml:"prices_interval"`
	CachesInterval  time.Duration `yaml:"caches_interval"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		APIPort:         8080,
		RPCs:            map[string]string{},
		CoinGeckoURL:    "https://api.coingecko.com/api/v3",
		CoinGeckoRPS:    2,
		RateLimitRPS:    10,
		RateLimitBurst:  20,
		GetlogsInterval: time.Hour,
		PricesInterval:  time.Hour,
		CachesInterval:  15 * time.Minute,
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv layers env vars over the loaded config: DATABASE_URL, API_PORT,
// and each chain's RPC env var from the roster.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			c.APIPort = port
		}
	}
	if v := os.Getenv("COINGECKO_URL"); v != "" {
		c.CoinGeckoURL = v
	}
	if v := os.Getenv("API_RATE_LIMIT_RPS"); v != "" {
		var rps float64
		if _, err := fmt.Sscanf(v, "%g", &rps); err == nil {
			c.RateLimitRPS = rps
		}
	}
	if v := os.Getenv("API_RATE_LIMIT_BURST"); v != "" {
		var burst int
		if _, err := fmt.Sscanf(v, "%d", &burst); err == nil && burst > 0 {
			c.RateLimitBurst = burst
		}
	}
	for i := range Chains {
		if v := os.Getenv(Chains[i].RPCEnv); v != "" {
			c.RPCs[Chains[i].Name] = v
		}
	}
}
