package settings

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrNotFound indicates a Get for a key that was never set.
var ErrNotFound = errors.New("settings: no value found for key")

var store = struct {
	mu sync.RWMutex
	m  map[string]any
}{m: make(map[string]any)}

// Get returns the value stored under key.
// Returns ErrNotFound if the key is absent.
func Get(key string) (any, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	value, ok := store.m[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, ErrNotFound)
	}

	return value, nil
}

// Set stores value under key, overwriting any previous value. An
// overwrite is legal but logs a warning with the old and new values so
// accidental redefinitions stay visible.
func Set(key string, value any) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if old, ok := store.m[key]; ok {
		zap.L().Warn("settings: overwriting existing setting",
			zap.String("key", key),
			zap.Any("old", old),
			zap.Any("new", value))
	}
	store.m[key] = value
}
