package ops

import (
	"os"
	"time"

	"github.com/yanun0323/errors"
	"gopkg.in/yaml.v3"
)

// Config carries every knob the four processes share. It is loaded once
// at startup and handed to components explicitly; nothing reads it from
// a global.
type Config struct {
	// Symbols is the instrument universe. Every process sees the same
	// list so the shared price book layout matches on both sides.
	Symbols   []string `yaml:"symbols"`
	Delimiter string   `yaml:"delimiter"`

	Gateway      GatewayConfig      `yaml:"gateway"`
	PriceBook    PriceBookConfig    `yaml:"pricebook"`
	Strategy     StrategyConfig     `yaml:"strategy"`
	OrderManager OrderManagerConfig `yaml:"order_manager"`
	Obs          ObsConfig          `yaml:"obs"`
}

// GatewayConfig drives the market data and news broadcast servers.
type GatewayConfig struct {
	// Host is where downstream processes dial the gateway.
	Host     string `yaml:"host"`
	MDPort   int    `yaml:"md_port"`
	NewsPort int    `yaml:"news_port"`

	// DataPath points at the tick CSV. Leave empty and set Synthetic to
	// replay a random walk instead.
	DataPath  string  `yaml:"data_path"`
	Synthetic bool    `yaml:"synthetic"`
	BasePrice float64 `yaml:"base_price"`
	Step      float64 `yaml:"step"`

	TickInterval time.Duration `yaml:"tick_interval"`
	NewsInterval time.Duration `yaml:"news_interval"`
	// NewsLimit bounds the news stream; zero means unbounded.
	NewsLimit int `yaml:"news_limit"`
}

// PriceBookConfig names the shared memory segment and tunes attach
// behavior for the processes that open it after the owner.
type PriceBookConfig struct {
	Name          string        `yaml:"name"`
	Dir           string        `yaml:"dir"`
	AttachRetries int           `yaml:"attach_retries"`
	AttachDelay   time.Duration `yaml:"attach_delay"`
}

// StrategyConfig tunes the crossover windows, sentiment thresholds and
// the price book poll cadence.
type StrategyConfig struct {
	ShortWindow int `yaml:"short_window"`
	LongWindow  int `yaml:"long_window"`
	Quantity    int `yaml:"quantity"`

	BearishThreshold int `yaml:"bearish_threshold"`
	BullishThreshold int `yaml:"bullish_threshold"`

	PollInterval time.Duration `yaml:"poll_interval"`
}

// OrderManagerConfig is the order router endpoint, used by both the
// router process to bind and the strategy process to dial.
type OrderManagerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ObsConfig enables the optional metrics endpoint and profiler. Empty
// addresses disable them.
type ObsConfig struct {
	MetricsAddr   string `yaml:"metrics_addr"`
	PyroscopeAddr string `yaml:"pyroscope_addr"`
}

// Load reads and validates a YAML config file, filling defaults for
// anything left unset.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Delimiter == "" {
		c.Delimiter = "*"
	}
	if c.Gateway.Host == "" {
		c.Gateway.Host = "127.0.0.1"
	}
	if c.Gateway.MDPort == 0 {
		c.Gateway.MDPort = 8000
	}
	if c.Gateway.NewsPort == 0 {
		c.Gateway.NewsPort = 8001
	}
	if c.Gateway.BasePrice == 0 {
		c.Gateway.BasePrice = 100
	}
	if c.PriceBook.Name == "" {
		c.PriceBook.Name = "price_book"
	}
	if c.PriceBook.AttachRetries == 0 {
		c.PriceBook.AttachRetries = 10
	}
	if c.PriceBook.AttachDelay == 0 {
		c.PriceBook.AttachDelay = 500 * time.Millisecond
	}
	if c.Strategy.ShortWindow == 0 {
		c.Strategy.ShortWindow = 5
	}
	if c.Strategy.LongWindow == 0 {
		c.Strategy.LongWindow = 20
	}
	if c.Strategy.Quantity == 0 {
		c.Strategy.Quantity = 100
	}
	if c.Strategy.BearishThreshold == 0 && c.Strategy.BullishThreshold == 0 {
		c.Strategy.BearishThreshold = 40
		c.Strategy.BullishThreshold = 60
	}
	if c.Strategy.PollInterval == 0 {
		c.Strategy.PollInterval = time.Second
	}
	if c.OrderManager.Host == "" {
		c.OrderManager.Host = "127.0.0.1"
	}
	if c.OrderManager.Port == 0 {
		c.OrderManager.Port = 8500
	}
}

// Validate rejects configs that no process could run with.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("config: symbols must not be empty")
	}
	if len(c.Delimiter) != 1 {
		return errors.New("config: delimiter must be a single character")
	}
	if c.Gateway.MDPort == c.Gateway.NewsPort {
		return errors.New("config: market data and news ports must differ")
	}
	if c.Strategy.ShortWindow <= 0 || c.Strategy.LongWindow < c.Strategy.ShortWindow {
		return errors.New("config: crossover windows require 0 < short_window <= long_window")
	}
	if c.Strategy.Quantity <= 0 {
		return errors.New("config: quantity must be positive")
	}
	b, u := c.Strategy.BearishThreshold, c.Strategy.BullishThreshold
	if b < 0 || u > 100 || b > u {
		return errors.New("config: sentiment thresholds require 0 <= bearish <= bullish <= 100")
	}
	return nil
}

// Delim returns the frame delimiter as a byte.
func (c *Config) Delim() byte {
	return c.Delimiter[0]
}
