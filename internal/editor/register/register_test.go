package register_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/internal/editor/register"
)

func TestManager_SetAndGet(t *testing.T) {
	m := register.New()
	m.Set("a", "yanked text", false)

	e, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "yanked text", e.Content)
}

func TestManager_GetUnknownReturnsFalse(t *testing.T) {
	m := register.New()
	_, ok := m.Get("z")
	assert.False(t, ok)
}

func TestManager_ListSortedByName(t *testing.T) {
	m := register.New()
	m.Set("z", "1", false)
	m.Set("a", "2", false)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
}
