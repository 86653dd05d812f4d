package binding_test

import (
	"errors"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/core/binding"
)

func TestRegistry_ApplyAllRunsInRegistrationOrder(t *testing.T) {
	t.Parallel()
	rt := goja.New()
	editorObj := rt.NewObject()
	r := binding.NewRegistry()

	var order []string
	r.Register("first", func(rt *goja.Runtime, obj *goja.Object, ctx any) error {
		order = append(order, "first")
		return obj.Set("first", true)
	}, binding.SourceNative)
	r.Register("second", func(rt *goja.Runtime, obj *goja.Object, ctx any) error {
		order = append(order, "second")
		return obj.Set("second", true)
	}, binding.SourceScript)

	require.NoError(t, r.ApplyAll(rt, editorObj, nil))
	assert.Equal(t, []string{"first", "second"}, order)
	assert.True(t, editorObj.Get("first").ToBoolean())
	assert.True(t, editorObj.Get("second").ToBoolean())
}

func TestRegistry_ApplyAllStopsOnFirstError(t *testing.T) {
	t.Parallel()
	rt := goja.New()
	editorObj := rt.NewObject()
	r := binding.NewRegistry()

	r.Register("boom", func(rt *goja.Runtime, obj *goja.Object, ctx any) error {
		return errors.New("install failed")
	}, binding.SourceNative)
	r.Register("never", func(rt *goja.Runtime, obj *goja.Object, ctx any) error {
		t.Fatal("should not run after a failing installer")
		return nil
	}, binding.SourceNative)

	err := r.ApplyAll(rt, editorObj, nil)
	require.Error(t, err)
}

func TestRegistry_ReloadBindingReinvokesSingleInstaller(t *testing.T) {
	t.Parallel()
	rt := goja.New()
	editorObj := rt.NewObject()
	r := binding.NewRegistry()

	calls := 0
	r.Register("counter", func(rt *goja.Runtime, obj *goja.Object, ctx any) error {
		calls++
		return obj.Set("counter", calls)
	}, binding.SourceNative)

	require.NoError(t, r.ApplyAll(rt, editorObj, nil))
	require.NoError(t, r.ReloadBinding(rt, editorObj, nil, "counter"))

	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(2), editorObj.Get("counter").ToInteger())
}

func TestRegistry_ReloadAllClearsAndRebuildsEditorObject(t *testing.T) {
	t.Parallel()
	rt := goja.New()
	editorObj := rt.NewObject()
	r := binding.NewRegistry()

	r.Register("a", func(rt *goja.Runtime, obj *goja.Object, ctx any) error {
		return obj.Set("a", true)
	}, binding.SourceNative)

	require.NoError(t, r.ApplyAll(rt, editorObj, nil))
	require.NoError(t, editorObj.Set("stray", "leftover"))

	require.NoError(t, r.ReloadAll(rt, editorObj, nil))
	assert.True(t, editorObj.Get("a").ToBoolean())
	assert.True(t, goja.IsUndefined(editorObj.Get("stray")))
}

func TestRegistry_RecordsProvenanceOnSourcesProperty(t *testing.T) {
	t.Parallel()
	rt := goja.New()
	editorObj := rt.NewObject()
	r := binding.NewRegistry()

	r.Register("native-one", func(rt *goja.Runtime, obj *goja.Object, ctx any) error { return nil }, binding.SourceNative)
	r.Register("script-one", func(rt *goja.Runtime, obj *goja.Object, ctx any) error { return nil }, binding.SourceScript)

	require.NoError(t, r.ApplyAll(rt, editorObj, nil))

	sources := editorObj.Get("__sources").Export().(map[string]string)
	assert.Equal(t, "native", sources["native-one"])
	assert.Equal(t, "script", sources["script-one"])
}
