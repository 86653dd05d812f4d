package module_test

import (
	"path/filepath"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/core/module"
)

func TestLoader_LoadEvaluatesEntryAndReturnsExports(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "entry.js"), `module.exports = { value: 42 };`)

	rt := goja.New()
	l := module.NewLoader(dir, nil)

	exports, err := l.Load(rt, filepath.Join(dir, "entry.js"))
	require.NoError(t, err)

	obj := exports.ToObject(rt)
	assert.Equal(t, int64(42), obj.Get("value").ToInteger())
}

func TestLoader_RequireLoadsDependencyAndCachesIt(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dep.js"), `
		exports.count = (exports.count || 0) + 1;
	`)
	writeFile(t, filepath.Join(dir, "entry.js"), `
		var a = require("./dep.js");
		var b = require("./dep.js");
		module.exports = { same: a === b, count: a.count };
	`)

	rt := goja.New()
	l := module.NewLoader(dir, nil)

	exports, err := l.Load(rt, filepath.Join(dir, "entry.js"))
	require.NoError(t, err)

	obj := exports.ToObject(rt)
	assert.True(t, obj.Get("same").ToBoolean())
	assert.Equal(t, int64(1), obj.Get("count").ToInteger())
}

func TestLoader_LoadMissingFileReturnsNotFound(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	rt := goja.New()
	l := module.NewLoader(dir, nil)

	_, err := l.Load(rt, filepath.Join(dir, "absent.js"))
	require.Error(t, err)
	assert.ErrorIs(t, err, module.ErrNotFound)
}

func TestLoader_SyntaxErrorSurfacesAsError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.js"), `this is not valid javascript (((`)

	rt := goja.New()
	l := module.NewLoader(dir, nil)

	_, err := l.Load(rt, filepath.Join(dir, "bad.js"))
	require.Error(t, err)
}

func TestLoader_LoadAllOrdersInitFileFirst(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "zzz.js"), `globalThis.__order = (globalThis.__order || []); globalThis.__order.push("zzz");`)
	writeFile(t, filepath.Join(dir, "init.js"), `globalThis.__order = (globalThis.__order || []); globalThis.__order.push("init");`)

	rt := goja.New()
	l := module.NewLoader(dir, nil)

	require.NoError(t, l.LoadAll(rt, dir, false))

	order := rt.GlobalObject().Get("__order")
	require.NotNil(t, order)
	exported := order.Export().([]interface{})
	assert.Equal(t, []interface{}{"init", "zzz"}, exported)
}

func TestCollectLooseFiles_NonRecursiveSkipsSubdirectories(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "top.js"), "")
	writeFile(t, filepath.Join(dir, "nested", "deep.js"), "")

	files, err := module.CollectLooseFiles(dir, false)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "top.js"), files[0])
}
