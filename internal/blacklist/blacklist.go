// Package blacklist answers whether a sender is banned, with awareness of
// the delivery context: a public-only ban leaves direct messages usable.
package blacklist

import (
	"sort"
	"sync"
)

// Entry is one banned sender.
type Entry struct {
	UserID     string
	PublicOnly bool
}

// Policy owns the ban set. It is loaded once at bring-up and mutated only
// through the administrative Ban/Unban operations afterwards.
type Policy struct {
	mu     sync.RWMutex
	banned map[string]bool // id -> public-only
}

func New() *Policy {
	return &Policy{banned: make(map[string]bool)}
}

// Load replaces the ban set wholesale. Used at bring-up.
func (p *Policy) Load(entries []Entry) {
	next := make(map[string]bool, len(entries))
	for _, e := range entries {
		next[e.UserID] = e.PublicOnly
	}
	p.mu.Lock()
	p.banned = next
	p.mu.Unlock()
}

// IsBanned reports whether the sender is banned in the given context.
func (p *Policy) IsBanned(id string, private bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	publicOnly, ok := p.banned[id]
	if !ok {
		return false
	}
	if publicOnly && private {
		return false
	}
	return true
}

func (p *Policy) Ban(id string, publicOnly bool) {
	p.mu.Lock()
	p.banned[id] = publicOnly
	p.mu.Unlock()
}

// Unban removes a ban and reports whether one existed.
func (p *Policy) Unban(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.banned[id]
	delete(p.banned, id)
	return ok
}

// Entries returns the ban set sorted by sender id.
func (p *Policy) Entries() []Entry {
	p.mu.RLock()
	out := make([]Entry, 0, len(p.banned))
	for id, publicOnly := range p.banned {
		out = append(out, Entry{UserID: id, PublicOnly: publicOnly})
	}
	p.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
