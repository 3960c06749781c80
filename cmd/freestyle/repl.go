package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/numbaa/learn-plt/pkg/compiler/lexer"
	"github.com/numbaa/learn-plt/pkg/pipeline"
)

const (
	historyFile = ".freestyle_history"
	promptMain  = "fs> "
	promptCont  = "..> "
)

func runREPL(opts pipeline.Options, stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "freestyle %s, :help for commands\n", version)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	session := pipeline.NewSession(stdout, opts)
	for {
		code, ok := readChunk(ln, opts.Keywords)
		if !ok {
			fmt.Fprintln(stdout)
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			if replCommand(session, stdout, code) {
				break
			}
			continue
		}
		if err := session.Run([]byte(code)); err != nil {
			reportError(stderr, err)
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return 0
}

// readChunk reads one line, then more while the buffer is an unfinished
// program or has an unclosed '{'. An empty continuation line gives up, so the parse
// error gets reported. ok is false at end of input.
func readChunk(ln *liner.State, kw lexer.KeywordTable) (code string, ok bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input.
			return "", true
		}
		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !needsMore(b.String(), kw) {
			return b.String(), true
		}
	}
}

func needsMore(src string, kw lexer.KeywordTable) bool {
	if strings.HasPrefix(strings.TrimSpace(src), ":") {
		return false
	}
	_, err := pipeline.Parse([]byte(src), kw)
	if err != nil {
		return pipeline.Incomplete(err)
	}
	return strings.Count(src, "{") > strings.Count(src, "}")
}

// replCommand handles a ':' line and reports whether the session should end.
func replCommand(s *pipeline.Session, w io.Writer, line string) bool {
	switch strings.TrimSpace(line) {
	case ":quit", ":q":
		return true
	case ":reset":
		s.Evaluator().Reset()
	case ":vars":
		globals := s.Evaluator().Globals()
		for _, name := range s.Evaluator().GlobalNames() {
			fmt.Fprintf(w, "%s = %d\n", name, globals[name])
		}
	case ":funcs":
		for _, name := range s.Evaluator().Functions() {
			fmt.Fprintln(w, name)
		}
	case ":help":
		fmt.Fprintln(w, ":vars  list global variables")
		fmt.Fprintln(w, ":funcs list declared functions")
		fmt.Fprintln(w, ":reset forget all variables and functions")
		fmt.Fprintln(w, ":quit  leave the session")
	default:
		fmt.Fprintf(w, "unknown command %s (try :help)\n", strings.TrimSpace(line))
	}
	return false
}
