// Package config loads server configuration from defaults, an optional
// config file and WORDCRUSH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/viper"
)

// DefaultLetters is the weighted letter pool; frequency encodes sampling probability
const DefaultLetters = "EEEEEEEEEEEEAAAAAAAAAIIIIIIIIIOOOOOOOONNNNNNRRRRRRTTTTTTLLLLSSSSUUUDDDDGGGBBCCMMPPFFHHVVWWYYKJXQZ"

// Oracle kinds
const (
	OracleKindHTTP       = "http"
	OracleKindDictionary = "dictionary"
)

// Storage types
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// GameConfig holds the rules of a single game
type GameConfig struct {
	GridSize      int    `mapstructure:"grid_size"`
	MinWordLength int    `mapstructure:"min_word_length"`
	Duration      int    `mapstructure:"duration"` // seconds
	Letters       string `mapstructure:"letters"`
	Tier2         string `mapstructure:"tier2"` // letters worth x2
	Tier3         string `mapstructure:"tier3"` // letters worth x3
}

// OracleConfig selects and tunes the word lookup backend
type OracleConfig struct {
	Kind     string        `mapstructure:"kind"`
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Attempts uint          `mapstructure:"attempts"`
}

// DictionaryConfig points at the local word list
type DictionaryConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig selects the storage backend
type StorageConfig struct {
	Type     string `mapstructure:"type"`
	RedisURL string `mapstructure:"redis_url"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the full application configuration
type Config struct {
	Game       GameConfig       `mapstructure:"game"`
	Oracle     OracleConfig     `mapstructure:"oracle"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
}

// DefaultGameConfig returns the reference rules: 7x7, three-letter minimum, ten minutes
func DefaultGameConfig() GameConfig {
	return GameConfig{
		GridSize:      7,
		MinWordLength: 3,
		Duration:      600,
		Letters:       DefaultLetters,
		Tier2:         "KVFHWY",
		Tier3:         "QZXJ",
	}
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Game: DefaultGameConfig(),
		Oracle: OracleConfig{
			Kind:     OracleKindHTTP,
			URL:      "https://api.dictionaryapi.dev/api/v2/entries/en/",
			Timeout:  5 * time.Second,
			Attempts: 2,
		},
		Dictionary: DictionaryConfig{Path: "data/words.txt"},
		Storage: StorageConfig{
			Type:     StorageTypeMemory,
			RedisURL: "redis://localhost:6379",
		},
		Server: ServerConfig{Host: "", Port: 8080},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads configuration. An empty path looks for wordcrush.{yaml,json,toml}
// in the working directory and tolerates its absence.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("WORDCRUSH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("wordcrush")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Game = cfg.Game.Normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("game.grid_size", d.Game.GridSize)
	v.SetDefault("game.min_word_length", d.Game.MinWordLength)
	v.SetDefault("game.duration", d.Game.Duration)
	v.SetDefault("game.letters", d.Game.Letters)
	v.SetDefault("game.tier2", d.Game.Tier2)
	v.SetDefault("game.tier3", d.Game.Tier3)

	v.SetDefault("oracle.kind", d.Oracle.Kind)
	v.SetDefault("oracle.url", d.Oracle.URL)
	v.SetDefault("oracle.timeout", d.Oracle.Timeout)
	v.SetDefault("oracle.attempts", d.Oracle.Attempts)

	v.SetDefault("dictionary.path", d.Dictionary.Path)

	v.SetDefault("storage.type", d.Storage.Type)
	v.SetDefault("storage.redis_url", d.Storage.RedisURL)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("log.level", d.Log.Level)
}

// Normalize upper-cases the letter sets and strips anything that is not a letter
func (g GameConfig) Normalize() GameConfig {
	g.Letters = lettersOnly(g.Letters)
	g.Tier2 = lettersOnly(g.Tier2)
	g.Tier3 = lettersOnly(g.Tier3)
	return g
}

func lettersOnly(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Validate checks the game rules are playable
func (g GameConfig) Validate() error {
	if g.GridSize < 3 {
		return fmt.Errorf("game.grid_size must be at least 3, got %d", g.GridSize)
	}
	// words shorter than three letters score nothing
	if g.MinWordLength < 3 {
		return fmt.Errorf("game.min_word_length must be at least 3, got %d", g.MinWordLength)
	}
	if g.Duration <= 0 {
		return fmt.Errorf("game.duration must be positive, got %d", g.Duration)
	}
	if g.Letters == "" {
		return errors.New("game.letters must not be empty")
	}
	for _, r := range g.Letters {
		if !unicode.IsUpper(r) {
			return fmt.Errorf("game.letters contains %q; expected A-Z", r)
		}
	}
	for _, r := range g.Tier2 {
		if strings.ContainsRune(g.Tier3, r) {
			return fmt.Errorf("letter %q is in both game.tier2 and game.tier3", r)
		}
	}
	return nil
}

// Validate checks the whole configuration
func (c Config) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return err
	}
	switch c.Oracle.Kind {
	case OracleKindHTTP:
		if c.Oracle.URL == "" {
			return errors.New("oracle.url is required for the http oracle")
		}
	case OracleKindDictionary:
	default:
		return fmt.Errorf("oracle.kind must be %q or %q, got %q", OracleKindHTTP, OracleKindDictionary, c.Oracle.Kind)
	}
	switch c.Storage.Type {
	case StorageTypeMemory, StorageTypeRedis:
	default:
		return fmt.Errorf("storage.type must be %q or %q, got %q", StorageTypeMemory, StorageTypeRedis, c.Storage.Type)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", c.Server.Port)
	}
	return nil
}
