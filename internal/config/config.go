package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Exchange ExchangeConfig
	Bot      BotConfig
	Runtime  RuntimeConfig
}

type ExchangeConfig struct {
	BaseUrl string
	WSUrl   string
	ApiKey  string
	Secret  string
}

type BotConfig struct {
	Symbol        string
	Contracts     int64
	BracketFrac   float64
	StopFrac      float64
	TPFrac        float64
	RangeSource   string
	RangePeriod   int
	Enabled       bool
	WindowEnabled bool
	StartTime     string
	StopTime      string
}

type RuntimeConfig struct {
	StatePath string
	Log       LogConfig
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func Load() (*Config, error) {

	cfg := &Config{}
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	viper.ReadInConfig()

	cfg.Exchange = ExchangeConfig{
		BaseUrl: viper.GetString("exchange.base_url"),
		WSUrl:   viper.GetString("exchange.ws_url"),
		ApiKey:  envSub("exchange.api_key"),
		Secret:  envSub("exchange.secret"),
	}

	cfg.Bot = BotConfig{
		Symbol:        viper.GetString("bot.symbol"),
		Contracts:     viper.GetInt64("bot.contracts"),
		BracketFrac:   viper.GetFloat64("bot.bracket_frac"),
		StopFrac:      viper.GetFloat64("bot.stop_frac"),
		TPFrac:        viper.GetFloat64("bot.tp_frac"),
		RangeSource:   viper.GetString("bot.range_source"),
		RangePeriod:   viper.GetInt("bot.range_period"),
		Enabled:       viper.GetBool("bot.enabled"),
		WindowEnabled: viper.GetBool("bot.window_enabled"),
		StartTime:     viper.GetString("bot.start_time"),
		StopTime:      viper.GetString("bot.stop_time"),
	}

	cfg.Runtime = RuntimeConfig{
		StatePath: viper.GetString("runtime.state_path"),
		Log: LogConfig{
			Level:      viper.GetString("runtime.log.level"),
			Format:     viper.GetString("runtime.log.format"),
			File:       viper.GetString("runtime.log.file"),
			MaxSize:    viper.GetInt("runtime.log.max_size"),
			MaxBackups: viper.GetInt("runtime.log.max_backups"),
			MaxAge:     viper.GetInt("runtime.log.max_age"),
			Compress:   viper.GetBool("runtime.log.compress"),
		},
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.Contracts == 0 {
		cfg.Bot.Contracts = 1
	}
	if cfg.Bot.BracketFrac == 0 {
		cfg.Bot.BracketFrac = 0.25
	}
	if cfg.Bot.StopFrac == 0 {
		cfg.Bot.StopFrac = 0.5
	}
	if cfg.Bot.TPFrac == 0 {
		cfg.Bot.TPFrac = 1.0
	}
	if cfg.Bot.RangeSource == "" {
		cfg.Bot.RangeSource = "atr"
	}
	if cfg.Bot.RangePeriod == 0 {
		cfg.Bot.RangePeriod = 14
	}
	if cfg.Bot.StartTime == "" {
		cfg.Bot.StartTime = "08:30:00"
	}
	if cfg.Bot.StopTime == "" {
		cfg.Bot.StopTime = "15:00:00"
	}
	if cfg.Runtime.StatePath == "" {
		cfg.Runtime.StatePath = "data/state.db"
	}
}

func validate(cfg *Config) error {
	if cfg.Bot.Symbol == "" {
		return fmt.Errorf("Не задан торговый инструмент (bot.symbol).")
	}
	if cfg.Bot.Contracts < 1 {
		return fmt.Errorf("Некорректное число контрактов: %d", cfg.Bot.Contracts)
	}
	if cfg.Bot.BracketFrac <= 0 || cfg.Bot.StopFrac <= 0 || cfg.Bot.TPFrac <= 0 {
		return fmt.Errorf("Доли R должны быть положительными: bracket=%f stop=%f tp=%f",
			cfg.Bot.BracketFrac, cfg.Bot.StopFrac, cfg.Bot.TPFrac)
	}
	switch strings.ToLower(cfg.Bot.RangeSource) {
	case "atr", "range":
	default:
		return fmt.Errorf("Неизвестный источник диапазона: %s", cfg.Bot.RangeSource)
	}
	if cfg.Bot.RangePeriod < 1 {
		return fmt.Errorf("Некорректный период диапазона: %d", cfg.Bot.RangePeriod)
	}
	return nil
}

func envSub(key string) string {
	val := viper.GetString(key)
	if val == "" {
		return ""
	}

	re := regexp.MustCompile(`\$\{(\w+)\}`)
	return re.ReplaceAllStringFunc(val, func(match string) string {
		envKey := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(envKey)
	})
}
