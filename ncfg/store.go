// Package ncfg holds per-node, per-position time-series configuration
package ncfg

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/lixenwraith/gridscope/vmath"
)

// KeyPrecision is the number of decimals kept when discretizing a position
const KeyPrecision = 2

var ErrLengthMismatch = errors.New("ncfg: time steps and strengths differ in length")

// Entry is one stored configuration; slices are never mutated after storage
type Entry struct {
	Position  vmath.Vec3F
	TimeSteps []float64
	Strengths []float64
}

func (e Entry) clone() Entry {
	return Entry{
		Position:  e.Position,
		TimeSteps: slices.Clone(e.TimeSteps),
		Strengths: slices.Clone(e.Strengths),
	}
}

// PositionKey encodes p at fixed precision as "x,y,z"
func PositionKey(p vmath.Vec3F) string {
	var b strings.Builder
	for i := 0; i < 3; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatCoord(p[i]))
	}
	return b.String()
}

func formatCoord(v float64) string {
	scale := math.Pow10(KeyPrecision)
	r := math.Round(v*scale) / scale
	if r == 0 {
		// Collapse negative zero
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Store maps (node, position key) to an Entry
// Reads are concurrent; writes are last-write-wins per key
type Store struct {
	mu    sync.RWMutex
	nodes map[string]map[string]Entry
	count int
}

func NewStore() *Store {
	return &Store{nodes: make(map[string]map[string]Entry)}
}

// Set replaces the entry for (nodeID, PositionKey(pos)) wholesale and returns the key
func (s *Store) Set(nodeID string, pos vmath.Vec3F, timeSteps, strengths []float64) (string, error) {
	if len(timeSteps) != len(strengths) {
		return "", ErrLengthMismatch
	}
	key := PositionKey(pos)
	entry := Entry{Position: pos, TimeSteps: timeSteps, Strengths: strengths}.clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.nodes[nodeID]
	if !ok {
		m = make(map[string]Entry)
		s.nodes[nodeID] = m
	}
	if _, exists := m[key]; !exists {
		s.count++
	}
	m[key] = entry
	return key, nil
}

// Get returns a copy of all entries for nodeID keyed by position key
// Missing nodes yield an empty, non-nil map
func (s *Store) Get(nodeID string) map[string]Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.nodes[nodeID]
	out := make(map[string]Entry, len(m))
	for k, e := range m {
		out[k] = e.clone()
	}
	return out
}

// Lookup returns a single entry
func (s *Store) Lookup(nodeID string, pos vmath.Vec3F) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.nodes[nodeID][PositionKey(pos)]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Has reports whether a configuration exists without copying it
func (s *Store) Has(nodeID, key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[nodeID][key]
	return ok
}

// Clear removes exactly one entry; absence is not an error
func (s *Store) Clear(nodeID string, pos vmath.Vec3F) {
	key := PositionKey(pos)

	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.nodes[nodeID]
	if !ok {
		return
	}
	if _, exists := m[key]; !exists {
		return
	}
	delete(m, key)
	s.count--
	if len(m) == 0 {
		delete(s.nodes, nodeID)
	}
}

// Nodes returns the ids holding at least one entry, sorted
func (s *Store) Nodes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len is the total number of entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}
