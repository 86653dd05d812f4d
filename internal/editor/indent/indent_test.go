package indent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opencursor/editorhost/internal/editor/indent"
)

func TestIndentForNewLine_IncreasesAfterOpener(t *testing.T) {
	e := indent.New()
	lines := []string{"func main() {"}
	result := e.IndentForNewLine("go", lines, 0)
	assert.Equal(t, 1, result.Level)
	assert.Equal(t, "    ", result.IndentString)
}

func TestIndentForNewLine_MatchesPreviousLineOtherwise(t *testing.T) {
	e := indent.New()
	lines := []string{"    x := 1"}
	result := e.IndentForNewLine("go", lines, 0)
	assert.Equal(t, 1, result.Level)
}

func TestIndentForLine_DecreasesBeforeCloser(t *testing.T) {
	e := indent.New()
	lines := []string{"func main() {", "}"}
	result := e.IndentForLine("go", lines, 1)
	assert.Equal(t, 0, result.Level)
}

func TestSetConfig_UsesTabsForFiletype(t *testing.T) {
	e := indent.New()
	e.SetConfig("makefile", indent.Config{UseTabs: true, TabWidth: 4, ShiftWidth: 4})
	lines := []string{"target:"}
	result := e.IndentForNewLine("makefile", lines, 0)
	assert.Equal(t, "\t", result.IndentString)
}

func TestGuess_MajorityVoteTabsVsSpaces(t *testing.T) {
	assert.True(t, indent.Guess([]string{"\tfoo", "\tbar", "  baz"}))
	assert.False(t, indent.Guess([]string{"  foo", "  bar", "\tbaz"}))
	assert.False(t, indent.Guess([]string{"foo", "bar"}))
}
