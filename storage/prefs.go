package storage

import (
	"context"
	"errors"
	"reflect"
	"time"

	"go.uber.org/zap"
)

const probeKey = "__storage_test__"

// Prefs is a forgiving view over a Store for UI preferences. Reads return a
// default on any failure and writes report success as a bool; failures are
// logged, never returned. An unavailable backend turns every call into a
// no-op.
type Prefs struct {
	store     Store
	logger    *zap.Logger
	timeout   time.Duration
	available bool
}

// NewPrefs wraps store and probes it once by writing and removing a test key.
func NewPrefs(store Store, logger *zap.Logger) *Prefs {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Prefs{store: store, logger: logger, timeout: 2 * time.Second}
	p.available = p.probe()
	return p
}

func (p *Prefs) probe() bool {
	if p.store == nil {
		p.logger.Warn("preferences storage is not configured")
		return false
	}
	ctx, cancel := p.ctx()
	defer cancel()
	if err := p.store.Set(ctx, probeKey, probeKey); err != nil {
		p.logger.Warn("preferences storage is not available", zap.Error(err))
		return false
	}
	if err := p.store.Remove(ctx, probeKey); err != nil {
		p.logger.Warn("preferences storage is not available", zap.Error(err))
		return false
	}
	return true
}

func (p *Prefs) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), p.timeout)
}

// Available reports whether the backing store passed its probe.
func (p *Prefs) Available() bool {
	return p.available
}

// Load decodes key into dst. It reports false, leaving dst untouched, when
// the key is missing, the store is unavailable, or the value does not decode.
func (p *Prefs) Load(key string, dst any) bool {
	if !p.available {
		return false
	}
	ctx, cancel := p.ctx()
	defer cancel()
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		p.logger.Error("read preference into non-pointer", zap.String("key", key))
		return false
	}
	// Decode into a scratch value so a bad encoding cannot half-fill dst.
	tmp := reflect.New(rv.Elem().Type())
	err := p.store.Get(ctx, key, tmp.Interface())
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		p.logger.Error("read preference", zap.String("key", key), zap.Error(err))
		return false
	}
	rv.Elem().Set(tmp.Elem())
	return true
}

// String returns the string stored under key, or def.
func (p *Prefs) String(key, def string) string {
	var v string
	if p.Load(key, &v) && v != "" {
		return v
	}
	return def
}

// Strings returns the string list stored under key, or def.
func (p *Prefs) Strings(key string, def []string) []string {
	var v []string
	if p.Load(key, &v) {
		return v
	}
	return def
}

// Put stores v under key and reports whether it succeeded.
func (p *Prefs) Put(key string, v any) bool {
	if !p.available {
		return false
	}
	ctx, cancel := p.ctx()
	defer cancel()
	if err := p.store.Set(ctx, key, v); err != nil {
		p.logger.Error("write preference", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Delete removes key and reports whether it succeeded.
func (p *Prefs) Delete(key string) bool {
	if !p.available {
		return false
	}
	ctx, cancel := p.ctx()
	defer cancel()
	if err := p.store.Remove(ctx, key); err != nil {
		p.logger.Error("remove preference", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Has reports whether key exists.
func (p *Prefs) Has(key string) bool {
	if !p.available {
		return false
	}
	ctx, cancel := p.ctx()
	defer cancel()
	ok, err := p.store.Has(ctx, key)
	if err != nil {
		p.logger.Error("check preference", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

// Keys returns every stored key, or nil when unavailable.
func (p *Prefs) Keys() []string {
	if !p.available {
		return nil
	}
	ctx, cancel := p.ctx()
	defer cancel()
	keys, err := p.store.Keys(ctx)
	if err != nil {
		p.logger.Error("list preferences", zap.Error(err))
		return nil
	}
	return keys
}

// Clear removes every key and reports whether it succeeded.
func (p *Prefs) Clear() bool {
	if !p.available {
		return false
	}
	ctx, cancel := p.ctx()
	defer cancel()
	if err := p.store.Clear(ctx); err != nil {
		p.logger.Error("clear preferences", zap.Error(err))
		return false
	}
	return true
}
