package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagekit/pkg/pages"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPageRecordRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	rec := pages.Record{
		PageID:   "counter",
		State:    `{"count":3}`,
		Location: `{"kind":"channel","channel_id":"c1","message_id":"m1"}`,
	}
	require.NoError(t, s.SavePage(ctx, "m1", rec))

	got, err := s.LoadPage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestLoadPageMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.LoadPage(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, pages.ErrNotFound)
}

func TestDeletePage(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SavePage(ctx, "m1", pages.Record{PageID: "counter"}))
	s.DeletePage("m1")

	_, err := s.LoadPage(ctx, "m1")
	assert.ErrorIs(t, err, pages.ErrNotFound)
}

func TestCommandHash(t *testing.T) {
	s := newTestStorage(t)

	assert.Empty(t, s.CommandHash("g1"))
	s.SetCommandHash("g1", "abc123")
	assert.Equal(t, "abc123", s.CommandHash("g1"))
	assert.Empty(t, s.CommandHash("g2"))
}
