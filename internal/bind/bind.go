// Package bind tracks which page elements have already been wired to a
// handler so rescans never bind twice.
package bind

import "sync"

// Registry records bound keys. The zero value is ready to use.
type Registry[K comparable] struct {
	mu    sync.Mutex
	bound map[K]struct{}
}

// Bind runs fn for key unless key is already bound. The key is recorded
// only if fn succeeds, so a failed bind is retried on the next call. It
// reports whether fn ran successfully.
func (r *Registry[K]) Bind(key K, fn func() error) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bound[key]; ok {
		return false, nil
	}
	if fn != nil {
		if err := fn(); err != nil {
			return false, err
		}
	}
	if r.bound == nil {
		r.bound = make(map[K]struct{})
	}
	r.bound[key] = struct{}{}
	return true, nil
}

// Bound reports whether key is bound.
func (r *Registry[K]) Bound(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bound[key]
	return ok
}

// Len is the number of bound keys.
func (r *Registry[K]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bound)
}
