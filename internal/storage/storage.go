package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/keshon/datastore"

	"pagekit/pkg/pages"
)

const (
	pageKeyPrefix    = "page:"
	cmdHashKeyPrefix = "cmdhash:"
)

// Storage persists page state and registration hashes in a JSON-backed
// datastore. It implements pages.Store.
type Storage struct {
	ds *datastore.DataStore
}

// New opens (or creates) the datastore file at filePath.
func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// pageRecord is the stored shape of a page. Kept as a JSON string inside the
// datastore so reloads round-trip through types we control.
type pageRecord struct {
	PageID   string `json:"page_id"`
	State    string `json:"state"`
	Location string `json:"location"`
}

// SavePage stores the serialized page record for a message.
func (s *Storage) SavePage(_ context.Context, messageID string, rec pages.Record) error {
	data, err := json.Marshal(pageRecord{PageID: rec.PageID, State: rec.State, Location: rec.Location})
	if err != nil {
		return fmt.Errorf("storage: marshal page record: %w", err)
	}
	s.ds.Add(pageKeyPrefix+messageID, string(data))
	return nil
}

// LoadPage fetches the serialized page record for a message. Returns
// pages.ErrNotFound when nothing is stored.
func (s *Storage) LoadPage(_ context.Context, messageID string) (pages.Record, error) {
	raw, ok := s.ds.Get(pageKeyPrefix + messageID)
	if !ok {
		return pages.Record{}, fmt.Errorf("message %s: %w", messageID, pages.ErrNotFound)
	}
	str, ok := raw.(string)
	if !ok {
		return pages.Record{}, fmt.Errorf("storage: unexpected page record type %T for message %s", raw, messageID)
	}
	var rec pageRecord
	if err := json.Unmarshal([]byte(str), &rec); err != nil {
		return pages.Record{}, fmt.Errorf("storage: unmarshal page record for message %s: %w", messageID, err)
	}
	return pages.Record{PageID: rec.PageID, State: rec.State, Location: rec.Location}, nil
}

// DeletePage drops the stored record for a message.
func (s *Storage) DeletePage(messageID string) {
	s.ds.Delete(pageKeyPrefix + messageID)
}

// CommandHash returns the cached registration hash for a guild, or "".
func (s *Storage) CommandHash(guildID string) string {
	raw, ok := s.ds.Get(cmdHashKeyPrefix + guildID)
	if !ok {
		return ""
	}
	h, _ := raw.(string)
	return h
}

// SetCommandHash caches the registration hash for a guild.
func (s *Storage) SetCommandHash(guildID, hash string) {
	s.ds.Add(cmdHashKeyPrefix+guildID, hash)
}
