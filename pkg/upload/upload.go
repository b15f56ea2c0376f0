// Package upload is the seam between the attribute engine and whatever blob
// backend the deployment uses. File-type fields store an opaque reference
// string; the registered cleaner is asked to drop the blob when the reference
// is superseded or its cause is removed. Missing cleanup is logged by the
// caller and never fails the write that triggered it.
package upload

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
)

var errCleanerNotConfigured = errors.New("upload: cleaner not configured")

// Cleaner removes the stored blob behind one file reference. Deleting a
// reference that no longer exists must not be an error.
type Cleaner interface {
	DeleteRef(ctx context.Context, ref string) error
}

var registry = struct {
	mu sync.RWMutex
	c  Cleaner
}{}

func RegisterCleaner(c Cleaner) error {
	if c == nil {
		return errors.New("upload: cleaner is nil")
	}
	v := reflect.ValueOf(c)
	if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface || v.Kind() == reflect.Slice || v.Kind() == reflect.Map || v.Kind() == reflect.Func || v.Kind() == reflect.Chan) && v.IsNil() {
		return errors.New("upload: cleaner is nil")
	}
	registry.mu.Lock()
	registry.c = c
	registry.mu.Unlock()
	return nil
}

func DeleteRef(ctx context.Context, ref string) error {
	cleaner, err := currentCleaner()
	if err != nil {
		return err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	return cleaner.DeleteRef(ctx, ref)
}

func currentCleaner() (Cleaner, error) {
	registry.mu.RLock()
	c := registry.c
	registry.mu.RUnlock()
	if c == nil {
		return nil, errCleanerNotConfigured
	}
	return c, nil
}

// ResetForTest clears the registered cleaner.
func ResetForTest() {
	registry.mu.Lock()
	registry.c = nil
	registry.mu.Unlock()
}
