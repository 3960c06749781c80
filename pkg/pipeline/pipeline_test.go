package pipeline_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/numbaa/learn-plt/pkg/compiler/lexer"
	"github.com/numbaa/learn-plt/pkg/compiler/parser"
	"github.com/numbaa/learn-plt/pkg/eval"
	"github.com/numbaa/learn-plt/pkg/pipeline"
)

type fixture struct {
	Name          string   `yaml:"name"`
	Source        string   `yaml:"source"`
	Output        []string `yaml:"output"`
	Error         string   `yaml:"error"`
	CallsDisabled bool     `yaml:"calls_disabled"`
}

func loadFixtures(t *testing.T) map[string][]fixture {
	t.Helper()
	files, err := filepath.Glob("testdata/*.yml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	all := make(map[string][]fixture)
	for _, file := range files {
		f, err := os.Open(file)
		require.NoError(t, err)
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		var cases []fixture
		err = dec.Decode(&cases)
		f.Close()
		require.NoError(t, err, file)
		all[strings.TrimSuffix(filepath.Base(file), ".yml")] = cases
	}
	return all
}

func TestFixtures(t *testing.T) {
	for group, cases := range loadFixtures(t) {
		for _, tc := range cases {
			t.Run(group+"/"+tc.Name, func(t *testing.T) {
				var out bytes.Buffer
				err := pipeline.Run([]byte(tc.Source), &out, pipeline.Options{
					Eval: eval.Options{DisableCalls: tc.CallsDisabled},
				})

				if tc.Error == "" {
					require.NoError(t, err)
				} else {
					require.Error(t, err)
					assert.Contains(t, err.Error(), tc.Error)
				}

				want := ""
				if len(tc.Output) > 0 {
					want = strings.Join(tc.Output, "\n") + "\n"
				}
				assert.Equal(t, want, out.String())
			})
		}
	}
}

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, err error)
	}{
		{
			name: "lex",
			src:  "print 1 $ 2",
			check: func(t *testing.T, err error) {
				var le *lexer.LexError
				require.ErrorAs(t, err, &le)
				assert.Equal(t, lexer.LexError{Char: '$', Row: 1, Col: 9}, *le)
			},
		},
		{
			name: "syntax",
			src:  "x 1",
			check: func(t *testing.T, err error) {
				var se *parser.SyntaxError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, "'='", se.Expected)
			},
		},
		{
			name: "eval",
			src:  "print x",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, eval.ErrVariableNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.Run([]byte(tt.src), &bytes.Buffer{}, pipeline.Options{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestRunIsRepeatable(t *testing.T) {
	src := []byte("a = 2\nprint a ^ 10\nprint b")
	var out1, out2 bytes.Buffer
	err1 := pipeline.Run(src, &out1, pipeline.Options{})
	err2 := pipeline.Run(src, &out2, pipeline.Options{})
	assert.Equal(t, "1024\n", out1.String())
	assert.Equal(t, out1.String(), out2.String())
	require.Error(t, err1)
	assert.Equal(t, err1.Error(), err2.Error())
}

func TestCustomKeywords(t *testing.T) {
	kw := lexer.KeywordTable{"show": lexer.KindPrint}
	var out bytes.Buffer
	require.NoError(t, pipeline.Run([]byte("print = 3\nshow print"), &out, pipeline.Options{Keywords: kw}))
	assert.Equal(t, "3\n", out.String())
}

func TestTokens(t *testing.T) {
	toks, err := pipeline.Tokens([]byte("a = 1"), nil)
	require.NoError(t, err)
	want := []lexer.Token{
		{Kind: lexer.KindSymbol, Literal: "a", Row: 1, Col: 1},
		{Kind: lexer.KindAssign, Literal: "=", Row: 1, Col: 3},
		{Kind: lexer.KindInteger, Literal: "1", Row: 1, Col: 5},
		{Kind: lexer.KindEOF, Row: 1, Col: 6},
	}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	root, err := pipeline.Parse([]byte("print 1 + 2 * x"), nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "(1 + (2 * x))", root.Children[0].Child(0).String())
}

func TestSessionKeepsState(t *testing.T) {
	var out bytes.Buffer
	s := pipeline.NewSession(&out, pipeline.Options{})

	require.NoError(t, s.Run([]byte("func twice(a) { return a * 2 }")))
	require.NoError(t, s.Run([]byte("n = 21")))
	require.NoError(t, s.Run([]byte("print twice(n)")))
	assert.Equal(t, "42\n", out.String())

	// A failing chunk leaves earlier bindings in place.
	assert.Error(t, s.Run([]byte("print nope")))
	assert.Equal(t, map[string]int64{"n": 21}, s.Evaluator().Globals())
}

func TestIncomplete(t *testing.T) {
	_, err := pipeline.Parse([]byte("func f(a) {\n  b = a"), nil)
	assert.True(t, pipeline.Incomplete(err))

	_, err = pipeline.Parse([]byte("print 1 +"), nil)
	assert.True(t, pipeline.Incomplete(err))

	_, err = pipeline.Parse([]byte("print )"), nil)
	assert.False(t, pipeline.Incomplete(err))

	_, err = pipeline.Parse([]byte("a = 1 b EOF"), nil)
	require.Error(t, err)
	assert.False(t, pipeline.Incomplete(err), "a variable named EOF is not end of input")

	assert.False(t, pipeline.Incomplete(errors.New("EOF")))
	assert.False(t, pipeline.Incomplete(nil))
}
