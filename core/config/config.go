package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	cacheMu sync.Mutex
	cache   = make(map[reflect.Type]any)
)

// loadDotenv loads a .env file from the working directory exactly once per
// process. A missing file is not an error — environment variables set any
// other way still work.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// Load parses environment variables into a new T, using struct tags
// understood by github.com/caarlos0/env. The result is cached by type: the
// first call for a given T does the parsing, every subsequent call returns
// the same cached value without re-reading the environment.
func Load[T any]() (*T, error) {
	loadDotenv()

	t := reflect.TypeOf((*T)(nil)).Elem()

	cacheMu.Lock()
	if cached, ok := cache[t]; ok {
		cacheMu.Unlock()
		return cached.(*T), nil
	}
	cacheMu.Unlock()

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", t.Name(), err)
	}

	cacheMu.Lock()
	cache[t] = &cfg
	cacheMu.Unlock()

	return &cfg, nil
}

// MustLoad is Load, panicking on error. Intended for process startup, where
// a misconfigured environment should fail fast.
func MustLoad[T any]() *T {
	cfg, err := Load[T]()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Reset clears the cache for T, forcing the next Load[T] call to re-parse
// the environment. Intended for tests that mutate process environment
// variables between cases.
func Reset[T any]() {
	t := reflect.TypeOf((*T)(nil)).Elem()
	cacheMu.Lock()
	delete(cache, t)
	cacheMu.Unlock()
}
