package project

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the parsed strata.toml. Zero values fall back to Default().
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Lexer  LexerConfig  `toml:"lexer"`
	Parser ParserConfig `toml:"parser"`
	// Languages maps file extensions (with dot) to registered language
	// names, overriding the built-in detection table.
	Languages map[string]string `toml:"languages"`
}

type CacheConfig struct {
	MaxEntries int `toml:"max_entries"`
}

type LexerConfig struct {
	PreserveComments *bool `toml:"preserve_comments"`
}

type ParserConfig struct {
	// Mode is "collect_all" or "fail_fast".
	Mode             string `toml:"mode"`
	MaxErrors        int    `toml:"max_errors"`
	StrictSeparators bool   `toml:"strict_separators"`
	// SyncTokens extends the recovery synchronization set.
	SyncTokens []string `toml:"sync_tokens"`
}

// Default returns the configuration used when no strata.toml exists.
func Default() Config {
	preserve := true
	return Config{
		Cache:  CacheConfig{MaxEntries: 128},
		Lexer:  LexerConfig{PreserveComments: &preserve},
		Parser: ParserConfig{Mode: "collect_all", MaxErrors: 100},
	}
}

// Load parses a strata.toml at path and overlays it on Default().
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Cache.MaxEntries <= 0 {
		cfg.Cache.MaxEntries = Default().Cache.MaxEntries
	}
	if cfg.Parser.MaxErrors <= 0 {
		cfg.Parser.MaxErrors = Default().Parser.MaxErrors
	}
	switch cfg.Parser.Mode {
	case "", "collect_all", "fail_fast":
	default:
		return Config{}, fmt.Errorf("%s: parser.mode must be collect_all or fail_fast, got %q", path, cfg.Parser.Mode)
	}
	if cfg.Parser.Mode == "" {
		cfg.Parser.Mode = "collect_all"
	}
	return cfg, nil
}

// Discover walks up from startDir, loads strata.toml when found, and falls
// back to Default() otherwise.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := FindStrataToml(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// PreserveComments resolves the lexer toggle with its default.
func (c Config) PreserveComments() bool {
	if c.Lexer.PreserveComments == nil {
		return true
	}
	return *c.Lexer.PreserveComments
}

// FailFast reports whether the parser should stop on the first error.
func (c Config) FailFast() bool { return c.Parser.Mode == "fail_fast" }
