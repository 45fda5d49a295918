package config

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		PollSeconds int    `toml:"poll_seconds"`
		LogLevel    string `toml:"log_level"`
	} `toml:"app"`

	Feed struct {
		BaseURL    string `toml:"base_url"`
		StocksPath string `toml:"stocks_path"`
		BondsPath  string `toml:"bonds_path"`
		CorpPath   string `toml:"corp_path"`
		MEPPath    string `toml:"mep_path"`
		TimeoutSec int    `toml:"timeout_sec"`
	} `toml:"feed"`

	Market struct {
		Timezone string `toml:"timezone"`
		Open     int    `toml:"open"`  // HHMM
		Close    int    `toml:"close"` // HHMM, inclusive
	} `toml:"market"`

	MEP struct {
		Bond    string `toml:"bond"`
		BondUSD string `toml:"bond_usd"`
	} `toml:"mep"`

	Storage struct {
		SQLitePath  string `toml:"sqlite_path"`
		RedisAddr   string `toml:"redis_addr"`
		RedisPrefix string `toml:"redis_prefix"`
		RedisTTLSec int    `toml:"redis_ttl_sec"`
		PostgresDSN string `toml:"postgres_dsn"`
	} `toml:"storage"`

	Stream struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
	} `toml:"stream"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.PollSeconds <= 0 {
		cfg.App.PollSeconds = 20
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.Feed.BaseURL == "" {
		cfg.Feed.BaseURL = "https://data-912-proxy.ferminrp.workers.dev"
	}
	if cfg.Feed.StocksPath == "" {
		cfg.Feed.StocksPath = "/live/arg_stocks"
	}
	if cfg.Feed.BondsPath == "" {
		cfg.Feed.BondsPath = "/live/arg_bonds"
	}
	if cfg.Feed.CorpPath == "" {
		cfg.Feed.CorpPath = "/live/arg_corp"
	}
	if cfg.Feed.MEPPath == "" {
		cfg.Feed.MEPPath = "/live/mep"
	}
	if cfg.Feed.TimeoutSec <= 0 {
		cfg.Feed.TimeoutSec = 10
	}
	if cfg.Market.Timezone == "" {
		cfg.Market.Timezone = "America/Argentina/Buenos_Aires"
	}
	if cfg.Market.Open <= 0 {
		cfg.Market.Open = 1100
	}
	if cfg.Market.Close <= 0 {
		cfg.Market.Close = 1700
	}
	if cfg.MEP.Bond == "" {
		cfg.MEP.Bond = "AL30"
	}
	if cfg.MEP.BondUSD == "" {
		cfg.MEP.BondUSD = cfg.MEP.Bond + "D"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/merval.db"
	}
	if cfg.Storage.RedisPrefix == "" {
		cfg.Storage.RedisPrefix = "merval"
	}
	if cfg.Storage.RedisTTLSec <= 0 {
		cfg.Storage.RedisTTLSec = 60
	}
	if cfg.Stream.Addr == "" {
		cfg.Stream.Addr = ":8900"
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Feed.BaseURL) == "" {
		return errors.New("feed.base_url is empty")
	}
	if cfg.Market.Open >= cfg.Market.Close {
		return errors.New("market.open must be before market.close")
	}
	if cfg.Market.Open < 0 || cfg.Market.Close > 2359 {
		return errors.New("market window out of range")
	}
	if strings.TrimSpace(cfg.MEP.Bond) == "" || strings.TrimSpace(cfg.MEP.BondUSD) == "" {
		return errors.New("mep bond pair is empty")
	}
	return nil
}
