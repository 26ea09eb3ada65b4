// Package preview caches transient visuals that are redrawn every frame.
//
// A Previewer renders each key once and keeps its visual alive for as long
// as the key is rendered again before the next CollectGarbage call.
package preview

import "github.com/chazu/tfbe/pkg/voxel"

type entry struct {
	epoch  uint64
	handle voxel.Handle
}

// Previewer maps preview keys to live visual handles.
type Previewer[K comparable] struct {
	epoch uint64
	cache map[K]entry
}

// New creates an empty previewer.
func New[K comparable]() *Previewer[K] {
	return &Previewer[K]{cache: make(map[K]entry)}
}

// Render marks key as wanted this epoch. spawn is called only if key has no
// live visual yet.
func (p *Previewer[K]) Render(key K, spawn func() voxel.Handle) {
	if e, ok := p.cache[key]; ok {
		e.epoch = p.epoch + 1
		p.cache[key] = e
		return
	}
	p.cache[key] = entry{epoch: p.epoch + 1, handle: spawn()}
}

// CollectGarbage advances the epoch and despawns every visual that was not
// rendered since the previous call.
func (p *Previewer[K]) CollectGarbage(despawn func(voxel.Handle)) {
	p.epoch++
	for key, e := range p.cache {
		if e.epoch != p.epoch {
			despawn(e.handle)
			delete(p.cache, key)
		}
	}
}

// Len returns the number of live visuals.
func (p *Previewer[K]) Len() int { return len(p.cache) }

// Handle returns the visual currently drawn for key.
func (p *Previewer[K]) Handle(key K) (voxel.Handle, bool) {
	e, ok := p.cache[key]
	return e.handle, ok
}
