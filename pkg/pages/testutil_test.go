package pages

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// stubTransport answers every REST call with a minimal message object and
// records method and path, so location edits and deletes are observable
// without a live API.
type stubTransport struct {
	mu    sync.Mutex
	calls []recordedCall
}

type recordedCall struct {
	Method string
	Path   string
	Body   []byte
}

func (t *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}
	t.mu.Lock()
	t.calls = append(t.calls, recordedCall{Method: req.Method, Path: req.URL.Path, Body: body})
	t.mu.Unlock()
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"id":"m1"}`)),
	}, nil
}

func (t *stubTransport) last() (recordedCall, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.calls) == 0 {
		return recordedCall{}, false
	}
	return t.calls[len(t.calls)-1], true
}

func stubSession(t *stubTransport) *discordgo.Session {
	return &discordgo.Session{
		Client:      &http.Client{Transport: t},
		Ratelimiter: discordgo.NewRatelimiter(),
	}
}

// memStore is an in-memory Store that counts accesses.
type memStore struct {
	mu    sync.Mutex
	recs  map[string]Record
	loads int
	saves int
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[string]Record)}
}

func (s *memStore) SavePage(ctx context.Context, messageID string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.recs[messageID] = rec
	return nil
}

func (s *memStore) LoadPage(ctx context.Context, messageID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	rec, ok := s.recs[messageID]
	if !ok {
		return Record{}, fmt.Errorf("memstore: message %s: %w", messageID, ErrNotFound)
	}
	return rec, nil
}

func (s *memStore) loadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

func componentInteraction(messageID, customID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:    "interaction-1",
		Type:  discordgo.InteractionMessageComponent,
		Token: "token",
		Message: &discordgo.Message{
			ID: messageID,
		},
		Data: discordgo.MessageComponentInteractionData{CustomID: customID},
	}}
}

// fakePage records the events it handles.
type fakePage struct {
	id       string
	state    string
	handled  []string
	instance *Instance
}

func (p *fakePage) PageID() string                { return p.id }
func (p *fakePage) MarshalState() (string, error) { return p.state, nil }
func (p *fakePage) Render() (*Render, error)      { return &Render{Content: "state " + p.state}, nil }

func (p *fakePage) Handle(ctx context.Context, ev *Event) error {
	p.handled = append(p.handled, ev.CustomID)
	p.instance = ev.Instance
	return nil
}
