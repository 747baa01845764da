// Package pool keeps reusable tcp connections to tracker and storage servers.
//
// A Registry owns one TargetPool per "host:port", created on first use.
// Connections are health checked with an active test package before reuse.
package pool

import (
	"context"
	"sort"
	"sync"
)

// Registry maps target addresses to their TargetPool.
// It is safe for concurrent use.
type Registry struct {
	config *Config
	lock   sync.RWMutex
	pools  map[string]*TargetPool
}

func NewRegistry(config *Config) *Registry {
	if config == nil {
		config = &Config{}
	}
	return &Registry{
		config: config,
		pools:  make(map[string]*TargetPool),
	}
}

// Get checks out a connection to target.
func (r *Registry) Get(ctx context.Context, target string) (*Conn, error) {
	return r.TargetPool(target).Get(ctx)
}

// TargetPool returns the pool of target, creating it if absent.
func (r *Registry) TargetPool(target string) *TargetPool {
	r.lock.RLock()
	p := r.pools[target]
	r.lock.RUnlock()
	if p != nil {
		return p
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if p = r.pools[target]; p == nil {
		p = newTargetPool(target, r.config)
		r.pools[target] = p
	}
	return p
}

// Stats returns a snapshot of all pools sorted by target.
func (r *Registry) Stats() []Stat {
	r.lock.RLock()
	defer r.lock.RUnlock()
	ret := make([]Stat, 0, len(r.pools))
	for _, p := range r.pools {
		ret = append(ret, p.Stat())
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Target < ret[j].Target
	})
	return ret
}

// Close closes idle connections of all pools.
func (r *Registry) Close() {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, p := range r.pools {
		p.Close()
	}
}
