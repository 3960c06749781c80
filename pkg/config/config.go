// Package config loads interpreter settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"unicode"

	"fortio.org/log"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/numbaa/learn-plt/pkg/compiler/lexer"
	"github.com/numbaa/learn-plt/pkg/eval"
	"github.com/numbaa/learn-plt/pkg/source"
)

// Color modes for diagnostics.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var logLevels = map[string]log.Level{
	"debug":   log.Debug,
	"verbose": log.Verbose,
	"info":    log.Info,
	"warning": log.Warning,
	"error":   log.Error,
}

// Config is the file format read by Load. A missing key keeps its default.
type Config struct {
	// Keywords maps a reserved word to a kind name (print, func, return,
	// while). When present it replaces the built-in table entirely.
	Keywords       map[string]string `yaml:"keywords"`
	MaxCallDepth   int               `yaml:"max_call_depth"`
	FunctionCalls  bool              `yaml:"function_calls"`
	LogLevel       string            `yaml:"log_level"`
	Color          string            `yaml:"color"`
	MaxSourceBytes int               `yaml:"max_source_bytes"`
}

func Default() *Config {
	kw := make(map[string]string)
	for word, kind := range lexer.DefaultKeywords() {
		kw[word] = kindName(kind)
	}
	return &Config{
		Keywords:       kw,
		MaxCallDepth:   eval.DefaultMaxCallDepth,
		FunctionCalls:  true,
		LogLevel:       "warning",
		Color:          ColorAuto,
		MaxSourceBytes: source.DefaultMaxBytes,
	}
}

func kindName(k lexer.Kind) string {
	for _, name := range lexer.KeywordKindNames() {
		if kk, _ := lexer.KeywordKind(name); kk == k {
			return name
		}
	}
	return k.String()
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	log.Infof("loaded config %s (%d keywords, max_call_depth=%d)", path, len(cfg.Keywords), cfg.MaxCallDepth)
	return cfg, nil
}

// Parse decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	defaults := cfg.Keywords
	cfg.Keywords = nil

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if cfg.Keywords == nil {
		cfg.Keywords = defaults
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	words := make([]string, 0, len(c.Keywords))
	for w := range c.Keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	for _, w := range words {
		if !isWord(w) {
			result = multierror.Append(result, fmt.Errorf("keyword %q: must be a non-empty run of letters", w))
		}
		if _, err := lexer.KeywordKind(c.Keywords[w]); err != nil {
			result = multierror.Append(result, fmt.Errorf("keyword %q: %w", w, err))
		}
	}
	if c.MaxCallDepth < 1 {
		result = multierror.Append(result, fmt.Errorf("max_call_depth: must be at least 1, got %d", c.MaxCallDepth))
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		result = multierror.Append(result, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		result = multierror.Append(result, fmt.Errorf("color: want auto, always or never, got %q", c.Color))
	}
	if c.MaxSourceBytes < 1 {
		result = multierror.Append(result, fmt.Errorf("max_source_bytes: must be positive, got %d", c.MaxSourceBytes))
	}
	return result.ErrorOrNil()
}

func isWord(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// KeywordTable converts Keywords for the scanner. Call on a validated Config.
func (c *Config) KeywordTable() lexer.KeywordTable {
	kw := make(lexer.KeywordTable, len(c.Keywords))
	for word, name := range c.Keywords {
		if k, err := lexer.KeywordKind(name); err == nil {
			kw[word] = k
		}
	}
	return kw
}

// EvalOptions returns the evaluator settings.
func (c *Config) EvalOptions() eval.Options {
	return eval.Options{MaxCallDepth: c.MaxCallDepth, DisableCalls: !c.FunctionCalls}
}

// Level returns the configured log level, Warning if unset.
func (c *Config) Level() log.Level {
	if lvl, ok := logLevels[c.LogLevel]; ok {
		return lvl
	}
	return log.Warning
}
