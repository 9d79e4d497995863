package discord

import "sync"

// ComponentRunFunc handles a button press or a modal submit
type ComponentRunFunc func(ctx *CommandContext) error

// Component routes every custom id starting with "<Prefix>:" (or equal to
// Prefix) to Run
type Component struct {
	Prefix string
	Run    ComponentRunFunc
}

// ComponentCollection holds component or modal handlers by prefix
type ComponentCollection struct {
	handlers map[string]*Component
	mu       sync.RWMutex
}

// NewComponentCollection creates a new ComponentCollection
func NewComponentCollection() *ComponentCollection {
	return &ComponentCollection{
		handlers: make(map[string]*Component),
	}
}

// Set adds or replaces a handler
func (cc *ComponentCollection) Set(c *Component) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.handlers[c.Prefix] = c
}

// Match finds the handler for a custom id and returns it with the id's arguments
func (cc *ComponentCollection) Match(customID string) (*Component, []string, bool) {
	prefix, args := SplitCustomID(customID)
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	c, ok := cc.handlers[prefix]
	return c, args, ok
}

// Size returns the number of handlers
func (cc *ComponentCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.handlers)
}
