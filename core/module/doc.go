// Package module implements ES module specifier resolution and a compile
// cache for the script host: given a specifier referenced from a module at
// some path, it resolves the specifier to a canonical file, compiles it
// (caching by canonical path), and lets the caller drive linking and
// evaluation through github.com/dop251/goja.
package module
