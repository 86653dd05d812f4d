// Package indent implements a per-filetype indent width/style table and
// the new-line/reindent heuristics, the Go port of the original's
// IndentEngine.
package indent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/opencursor/editorhost/core/command"
)

// Config is one filetype's indent style.
type Config struct {
	UseTabs    bool `json:"useTabs"`
	TabWidth   int  `json:"tabWidth"`
	ShiftWidth int  `json:"shiftWidth"`
}

// DefaultConfig is used for filetypes with no explicit entry.
var DefaultConfig = Config{UseTabs: false, TabWidth: 4, ShiftWidth: 4}

// Result is the outcome of an indent calculation.
type Result struct {
	Level        int    `json:"level"`
	IndentString string `json:"indentString"`
}

// Engine holds per-filetype indent configuration.
type Engine struct {
	mu      sync.RWMutex
	configs map[string]Config
}

// New builds an Engine with no per-filetype overrides.
func New() *Engine {
	return &Engine{configs: make(map[string]Config)}
}

// SetConfig overrides filetype's indent style.
func (e *Engine) SetConfig(filetype string, cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.configs[filetype] = cfg
}

// Config returns filetype's indent style, or DefaultConfig if unset.
func (e *Engine) Config(filetype string) Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if cfg, ok := e.configs[filetype]; ok {
		return cfg
	}
	return DefaultConfig
}

func isIndentIncreaser(c byte) bool {
	return c == '{' || c == '(' || c == '[' || c == ':'
}

func isIndentDecreaser(c byte) bool {
	return c == '}' || c == ')' || c == ']'
}

func visualWidth(ws string, cfg Config) int {
	width := 0
	for i := 0; i < len(ws); i++ {
		if ws[i] == '\t' {
			width += cfg.TabWidth - (width % cfg.TabWidth)
		} else {
			width++
		}
	}
	return width
}

// LeadingWhitespace returns line's leading run of spaces and tabs.
func LeadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

// StripLeadingWhitespace removes line's leading whitespace.
func StripLeadingWhitespace(line string) string {
	return strings.TrimLeft(line, " \t")
}

// IndentLevel returns line's indent level under cfg (visual width / shift width).
func (e *Engine) IndentLevel(line string, cfg Config) int {
	if cfg.ShiftWidth <= 0 {
		return 0
	}
	return visualWidth(LeadingWhitespace(line), cfg) / cfg.ShiftWidth
}

// MakeIndentString builds the whitespace prefix for level under cfg.
func MakeIndentString(level int, cfg Config) string {
	if level <= 0 {
		return ""
	}
	if cfg.UseTabs {
		return strings.Repeat("\t", level)
	}
	return strings.Repeat(" ", level*cfg.ShiftWidth)
}

// IndentForNewLine computes the indent for a new line inserted after
// lines[afterLine], under filetype's configuration.
func (e *Engine) IndentForNewLine(filetype string, lines []string, afterLine int) Result {
	if afterLine < 0 || afterLine >= len(lines) {
		return Result{}
	}
	cfg := e.Config(filetype)

	prev := lines[afterLine]
	level := e.IndentLevel(prev, cfg)

	stripped := StripLeadingWhitespace(prev)
	if stripped != "" {
		last := stripped[len(stripped)-1]
		if last == ' ' || last == '\t' {
			stripped = strings.TrimRight(stripped, " \t")
			if stripped != "" {
				last = stripped[len(stripped)-1]
			}
		}
		if stripped != "" && isIndentIncreaser(last) {
			level++
		}
	}

	return Result{Level: level, IndentString: MakeIndentString(level, cfg)}
}

// IndentForLine computes the correct indent for lines[line] (reindent),
// based on the previous line plus a decrease if line opens with a closer.
func (e *Engine) IndentForLine(filetype string, lines []string, line int) Result {
	if line <= 0 {
		return Result{}
	}
	cfg := e.Config(filetype)
	result := e.IndentForNewLine(filetype, lines, line-1)

	cur := StripLeadingWhitespace(lines[line])
	if cur != "" && isIndentDecreaser(cur[0]) {
		if result.Level > 0 {
			result.Level--
		}
		result.IndentString = MakeIndentString(result.Level, cfg)
	}
	return result
}

// Guess infers useTabs by majority vote over the leading whitespace of
// sampled lines: a line indented with a leading tab votes tabs, a line
// indented with leading spaces votes spaces, blank-indent lines abstain.
func Guess(lines []string) bool {
	tabVotes, spaceVotes := 0, 0
	for _, line := range lines {
		ws := LeadingWhitespace(line)
		if ws == "" {
			continue
		}
		if ws[0] == '\t' {
			tabVotes++
		} else {
			spaceVotes++
		}
	}
	return tabVotes > spaceVotes
}

// RegisterCommands binds indent.guess onto router.
func (e *Engine) RegisterCommands(router *command.Router) {
	router.RegisterQuery("indent.guess", func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Lines []string `json:"lines"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("indent.guess: %w", err)
		}
		return map[string]bool{"useTabs": Guess(req.Lines)}, nil
	})
}
