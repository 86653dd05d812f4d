package extmark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/internal/editor/extmark"
)

func TestManager_SetAndGetByNamespace(t *testing.T) {
	m := extmark.New()
	m.Set("buf1", "lsp", 5, 5, map[string]any{"severity": "error"})
	m.Set("buf1", "git", 1, 1, nil)

	lsp := m.Get("buf1", "lsp")
	require.Len(t, lsp, 1)
	assert.Equal(t, 5, lsp[0].StartLine)

	all := m.Get("buf1", "")
	assert.Len(t, all, 2)
}

func TestManager_ShiftLinesMovesMarksAtOrAfterEdit(t *testing.T) {
	m := extmark.New()
	before := m.Set("buf1", "lsp", 2, 2, nil)
	after := m.Set("buf1", "lsp", 10, 10, nil)

	m.ShiftLines("buf1", 5, 3)

	assert.Equal(t, 2, before.StartLine, "mark before the edit point must not move")
	assert.Equal(t, 13, after.StartLine, "mark at/after the edit point shifts by delta")
}

func TestManager_ClearRemovesNamespace(t *testing.T) {
	m := extmark.New()
	m.Set("buf1", "lsp", 1, 1, nil)
	m.Set("buf1", "git", 2, 2, nil)

	n := m.Clear("buf1", "lsp")
	assert.Equal(t, 1, n)
	assert.Empty(t, m.Get("buf1", "lsp"))
	assert.Len(t, m.Get("buf1", ""), 1)
}
