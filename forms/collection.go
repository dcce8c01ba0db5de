package forms

import (
	"sync"

	"github.com/lixenwraith/gridscope/scene"
)

// Collection is the ordered logical set of dropped forms
type Collection struct {
	mu    sync.RWMutex
	order []string
	forms map[string]scene.DroppedForm
}

func NewCollection() *Collection {
	return &Collection{forms: make(map[string]scene.DroppedForm)}
}

// Add inserts f; re-adding an existing id is ignored and reports false
func (c *Collection) Add(f scene.DroppedForm) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.forms[f.ID]; ok {
		return false
	}
	c.forms[f.ID] = f
	c.order = append(c.order, f.ID)
	return true
}

// Remove deletes by id; absence is not an error
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.forms[id]; !ok {
		return false
	}
	delete(c.forms, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns forms in insertion order
func (c *Collection) List() []scene.DroppedForm {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]scene.DroppedForm, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.forms[id])
	}
	return out
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
