package gateway

import (
	"sort"
	"sync"
)

// ChannelList owns the main-channel allow-list. Until a list is loaded the
// gateway enforces no channel restriction at all; a failed bring-up load
// therefore degrades to "unrestricted" instead of refusing to start.
type ChannelList struct {
	mu         sync.RWMutex
	ids        map[string]struct{}
	restricted bool
}

func NewChannelList() *ChannelList {
	return &ChannelList{ids: make(map[string]struct{})}
}

// Load replaces the allow-list and turns restriction on.
func (c *ChannelList) Load(ids []string) {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	c.mu.Lock()
	c.ids = next
	c.restricted = true
	c.mu.Unlock()
}

// Add allows one more channel. Adding a channel turns restriction on if it
// was not already.
func (c *ChannelList) Add(id string) {
	c.mu.Lock()
	c.ids[id] = struct{}{}
	c.restricted = true
	c.mu.Unlock()
}

// Allows reports whether a shared channel may carry restricted commands.
func (c *ChannelList) Allows(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.restricted {
		return true
	}
	_, ok := c.ids[id]
	return ok
}

// IDs returns the allow-list sorted, for announcements and status output.
func (c *ChannelList) IDs() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.ids))
	for id := range c.ids {
		out = append(out, id)
	}
	c.mu.RUnlock()
	sort.Strings(out)
	return out
}
