package scene

import "sync"

// ResourceKind classifies GPU-style resources held by primitives
type ResourceKind uint8

const (
	ResourceGeometry ResourceKind = iota
	ResourceMaterial
)

// ResourceID identifies one allocation, zero is never issued
type ResourceID uint64

// Pool tracks live resources so removal and teardown release explicitly
// Release of an unknown or already released id is a no-op
type Pool struct {
	mu       sync.Mutex
	next     ResourceID
	live     map[ResourceID]ResourceKind
	released uint64
}

func NewPool() *Pool {
	return &Pool{live: make(map[ResourceID]ResourceKind)}
}

// Alloc issues a new resource id
func (p *Pool) Alloc(kind ResourceKind) ResourceID {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	p.live[p.next] = kind
	return p.next
}

// Release frees id, returns false when it was not live
func (p *Pool) Release(id ResourceID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.live[id]; !ok {
		return false
	}
	delete(p.live, id)
	p.released++
	return true
}

// Live returns the number of unreleased resources
func (p *Pool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// LiveByKind counts unreleased resources of one kind
func (p *Pool) LiveByKind(kind ResourceKind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, k := range p.live {
		if k == kind {
			n++
		}
	}
	return n
}

// Released returns the total number of successful releases
func (p *Pool) Released() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}
