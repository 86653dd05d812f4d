// Package watcher implements the File Watcher: periodic recursive
// snapshot-and-diff change detection under a directory tree, on one
// background goroutine per watcher.
package watcher
