package blacklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanScopes(t *testing.T) {
	p := New()
	p.Load([]Entry{
		{UserID: "full"},
		{UserID: "public", PublicOnly: true},
	})

	tests := []struct {
		name    string
		id      string
		private bool
		banned  bool
	}{
		{"full ban in channel", "full", false, true},
		{"full ban in DM", "full", true, true},
		{"public ban in channel", "public", false, true},
		{"public ban leaves DM open", "public", true, false},
		{"unknown sender in channel", "stranger", false, false},
		{"unknown sender in DM", "stranger", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.banned, p.IsBanned(tt.id, tt.private))
		})
	}
}

func TestLoadReplacesWholesale(t *testing.T) {
	p := New()
	p.Ban("old", false)
	p.Load([]Entry{{UserID: "new"}})

	assert.False(t, p.IsBanned("old", false))
	assert.True(t, p.IsBanned("new", false))
}

func TestBanUnban(t *testing.T) {
	p := New()
	p.Ban("alice", false)
	assert.True(t, p.IsBanned("alice", true))

	assert.True(t, p.Unban("alice"))
	assert.False(t, p.IsBanned("alice", false))
	assert.False(t, p.Unban("alice"))
}

func TestBanUpgradesScope(t *testing.T) {
	p := New()
	p.Ban("alice", true)
	assert.False(t, p.IsBanned("alice", true))

	// Re-banning with full scope replaces the public-only ban.
	p.Ban("alice", false)
	assert.True(t, p.IsBanned("alice", true))
}

func TestEntriesSorted(t *testing.T) {
	p := New()
	p.Ban("charlie", false)
	p.Ban("alice", true)
	p.Ban("bob", false)

	entries := p.Entries()
	assert.Equal(t, []Entry{
		{UserID: "alice", PublicOnly: true},
		{UserID: "bob"},
		{UserID: "charlie"},
	}, entries)
}
