package widget

import (
	"time"

	"beforeafter/storage"
	"beforeafter/utils"
)

// Factory builds the widget for an extension id
type Factory func(extensionID string) (*Widget, error)

// Registry holds the live widgets by extension id. Widgets idle for longer
// than the TTL are closed and dropped.
type Registry struct {
	cache   *storage.Cache[*Widget]
	factory Factory
}

// NewRegistry creates a registry. A zero ttl keeps widgets until Remove.
// onEvict, when set, runs after a widget is closed on expiry, Remove or Close
// so that state kept elsewhere for the id can be dropped too.
func NewRegistry(ttl time.Duration, factory Factory, onEvict func(id string)) *Registry {
	cache := storage.NewCache[*Widget](ttl)
	cache.OnEvict = func(id string, w *Widget) {
		utils.Log.Debug("Evicting widget %s", id)
		w.Close()
		if onEvict != nil {
			onEvict(id)
		}
	}
	if ttl > 0 {
		cache.StartCleanup(ttl / 4)
	}
	return &Registry{cache: cache, factory: factory}
}

// Get returns a live widget, refreshing its lifetime
func (r *Registry) Get(id string) (*Widget, bool) {
	w, ok := r.cache.Get(id)
	if ok {
		r.cache.Touch(id)
	}
	return w, ok
}

// GetOrCreate returns the widget for id, mounting it on first use
func (r *Registry) GetOrCreate(id string) (*Widget, error) {
	w, err := r.cache.GetOrCreate(id, func() (*Widget, error) {
		utils.Log.Info("Mounting widget %s", id)
		return r.factory(id)
	})
	if err != nil {
		return nil, err
	}
	r.cache.Touch(id)
	return w, nil
}

// Remove closes and drops the widget
func (r *Registry) Remove(id string) bool {
	return r.cache.Delete(id)
}

// Len returns the number of live widgets
func (r *Registry) Len() int {
	return r.cache.Size()
}

// Close closes every widget and stops the cleanup loop
func (r *Registry) Close() {
	r.cache.Close()
	r.cache.Clear()
}
