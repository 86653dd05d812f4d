package window_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/internal/editor/window"
)

func TestNew_StartsWithFocusedRoot(t *testing.T) {
	m := window.New("doc1")
	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, list[0].ID, m.Focused())
}

func TestManager_SplitFocusesNewWindow(t *testing.T) {
	m := window.New("doc1")
	root := m.List()[0]

	w, err := m.Split(root.ID, window.SplitVertical, "doc2")
	require.NoError(t, err)
	assert.Equal(t, w.ID, m.Focused())
	assert.Len(t, m.List(), 2)
}

func TestManager_CloseRootRefusedWhileSplitsExist(t *testing.T) {
	m := window.New("doc1")
	root := m.List()[0]
	_, err := m.Split(root.ID, window.SplitHorizontal, "doc2")
	require.NoError(t, err)

	assert.Error(t, m.Close(root.ID))
}

func TestManager_CloseReassignsFocus(t *testing.T) {
	m := window.New("doc1")
	root := m.List()[0]
	w, err := m.Split(root.ID, window.SplitHorizontal, "doc2")
	require.NoError(t, err)
	require.Equal(t, w.ID, m.Focused())

	require.NoError(t, m.Close(w.ID))
	assert.Equal(t, root.ID, m.Focused())
}
