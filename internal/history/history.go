// Package history keeps a rolling audit trail of executed commands in a
// JSON file datastore.
package history

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/datastore"
)

const (
	recordKey   = "commands"
	recordLimit = 100
)

type Entry struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ChannelID string    `json:"channel_id"`
	Command   string    `json:"command"`
	Private   bool      `json:"private"`
	Datetime  time.Time `json:"datetime"`
}

type Log struct {
	mu sync.Mutex
	ds *datastore.DataStore
}

func New(filePath string) (*Log, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("open history datastore: %w", err)
	}
	return &Log{ds: ds}, nil
}

func (l *Log) Close() error {
	return l.ds.Close()
}

// Append records one executed command, trimming the trail to recordLimit.
func (l *Log) Append(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return err
	}
	entries = append(entries, e)
	if len(entries) > recordLimit {
		entries = entries[len(entries)-recordLimit:]
	}
	l.ds.Add(recordKey, entries)
	return nil
}

// Recent returns up to n most recent entries, newest last.
func (l *Log) Recent(n int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// load roundtrips through JSON because the datastore hands back generic
// values after a reload from disk.
func (l *Log) load() ([]Entry, error) {
	raw, exists := l.ds.Get(recordKey)
	if !exists {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return entries, nil
}
