// Package pages manages long-lived, stateful interactive messages. A live
// page sits in a sliding-TTL cache keyed by its message ID; its serialized
// state is written to a caller-supplied store on every update, so an evicted
// page can be rebuilt from storage the next time one of its components is
// clicked.
package pages

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
)

// ErrPageGone is returned by a deserializer to signal that the persisted
// state no longer maps to a valid page (e.g. the underlying domain object
// expired). The backing message is then closed instead of rehydrated.
var ErrPageGone = errors.New("pages: page no longer valid")

// ErrNotFound is returned by a Store when no state exists for a message ID.
var ErrNotFound = errors.New("pages: no stored state for message")

// UnsetID is the placeholder page identifier. Registering a type that still
// carries it is a configuration error caught at registration time.
const UnsetID = "unset"

// Page is one live interactive message. Implementations hold their own
// mutable state; MarshalState must capture everything Deserialize needs to
// rebuild an equivalent page later.
type Page interface {
	PageID() string
	MarshalState() (string, error)
	Render() (*Render, error)
	Handle(ctx context.Context, ev *Event) error
}

// Evictable pages get a hook right before their in-memory instance is
// discarded on idle eviction. Persisted state survives eviction regardless.
type Evictable interface {
	OnEvict(ctx context.Context)
}

// Render is a page's materialized visual representation.
type Render struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// Event is one component interaction routed to a page.
type Event struct {
	Session  *discordgo.Session
	Event    *discordgo.InteractionCreate
	CustomID string
	// Values carries select-menu selections, empty for buttons.
	Values   []string
	Instance *Instance
}

// Update re-renders the page, edits the backing message, and persists the
// new state. Shorthand for the owning manager's Update.
func (ev *Event) Update(ctx context.Context) error {
	return ev.Instance.mgr.Update(ctx, ev.Session, ev.Instance)
}

// Ack acknowledges the component interaction without changing the message.
func (ev *Event) Ack() error {
	return ev.Session.InteractionRespond(ev.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}
