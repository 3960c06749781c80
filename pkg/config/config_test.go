package config_test

import (
	"strings"
	"testing"

	"fortio.org/log"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numbaa/learn-plt/pkg/compiler/lexer"
	"github.com/numbaa/learn-plt/pkg/config"
	"github.com/numbaa/learn-plt/pkg/eval"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, map[string]string{
		"print":  "print",
		"func":   "func",
		"return": "return",
		"while":  "while",
	}, cfg.Keywords)
	assert.Equal(t, lexer.DefaultKeywords(), cfg.KeywordTable())
	assert.Equal(t, eval.Options{MaxCallDepth: eval.DefaultMaxCallDepth}, cfg.EvalOptions())
	assert.Equal(t, log.Warning, cfg.Level())
	assert.Equal(t, config.ColorAuto, cfg.Color)
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParsePartial(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader("function_calls: false\nmax_source_bytes: 64\n"))
	require.NoError(t, err)
	assert.True(t, cfg.EvalOptions().DisableCalls)
	assert.Equal(t, 64, cfg.MaxSourceBytes)
	assert.Equal(t, config.Default().Keywords, cfg.Keywords)
}

func TestLoadFrench(t *testing.T) {
	cfg, err := config.Load("testdata/french.yml")
	require.NoError(t, err)

	kw := cfg.KeywordTable()
	assert.Equal(t, lexer.KindPrint, kw.Lookup("afficher"))
	assert.Equal(t, lexer.KindFuncDecl, kw.Lookup("fonction"))
	assert.Equal(t, lexer.KindReturn, kw.Lookup("retour"))
	// The file replaces the built-in table, so "print" is a plain name.
	assert.Equal(t, lexer.KindSymbol, kw.Lookup("print"))

	assert.Equal(t, 32, cfg.EvalOptions().MaxCallDepth)
	assert.Equal(t, log.Verbose, cfg.Level())
	assert.Equal(t, config.ColorNever, cfg.Color)
}

func TestLoadReportsEveryProblem(t *testing.T) {
	_, err := config.Load("testdata/invalid.yml")
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 6)

	msg := err.Error()
	for _, want := range []string{
		`keyword "my_print"`,
		`keyword "loop": unknown keyword kind "repeat"`,
		"max_call_depth",
		`log_level: unknown level "chatty"`,
		`color: want auto, always or never, got "rainbow"`,
		"max_source_bytes",
	} {
		assert.Contains(t, msg, want)
	}
	assert.Contains(t, msg, "config: parse testdata/invalid.yml")
}

func TestUnknownField(t *testing.T) {
	_, err := config.Parse(strings.NewReader("max_depth: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_depth")
}

func TestLoadMissing(t *testing.T) {
	_, err := config.Load("testdata/does-not-exist.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")
}
