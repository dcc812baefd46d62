package router

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// recordedCall is one REST call the stub transport saw.
type recordedCall struct {
	Method string
	Path   string
	Body   []byte
}

// stubTransport answers every API call with an empty JSON object and records
// what was sent, so tests can assert on outgoing interaction responses
// without a live gateway.
type stubTransport struct {
	mu    sync.Mutex
	calls []recordedCall
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
		Body:       io.NopCloser(strings.NewReader("{}")),
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

func (t *stubTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// lastResponse decodes the most recent call body as an interaction response.
func (t *stubTransport) lastResponse() (discordgo.InteractionResponse, bool) {
	call, ok := t.last()
	if !ok {
		return discordgo.InteractionResponse{}, false
	}
	var resp discordgo.InteractionResponse
	if err := json.Unmarshal(call.Body, &resp); err != nil {
		return discordgo.InteractionResponse{}, false
	}
	return resp, true
}

func stubSession(t *stubTransport) *discordgo.Session {
	return &discordgo.Session{
		Client:      &http.Client{Transport: t},
		Ratelimiter: discordgo.NewRatelimiter(),
	}
}

// commandInteraction builds a chat-command interaction carrying the given
// leaf options.
func commandInteraction(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:    "interaction-1",
		Type:  discordgo.InteractionApplicationCommand,
		Token: "token",
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: opts,
		},
	}}
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func intOpt(name string, value int64) *discordgo.ApplicationCommandInteractionDataOption {
	// The wire carries JSON numbers, which discordgo surfaces as float64.
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}
