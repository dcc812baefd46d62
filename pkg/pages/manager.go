package pages

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"pagekit/pkg/ttlcache"
)

// DefaultTTL is the idle lifetime of a cached page instance.
const DefaultTTL = 30 * time.Second

// closedNotice replaces an ephemeral page's content when it expires; the
// message itself cannot be deleted through the webhook of a dead interaction.
const closedNotice = "This interactive message has expired."

// Record is the durable form of a page: its type identifier, serialized
// state, and encoded message location.
type Record struct {
	PageID   string
	State    string
	Location string
}

// Store is the caller-supplied persistence collaborator. LoadPage returns
// ErrNotFound (possibly wrapped) when nothing is stored for the message.
type Store interface {
	SavePage(ctx context.Context, messageID string, rec Record) error
	LoadPage(ctx context.Context, messageID string) (Record, error)
}

// Config configures a Manager. Registry is required; Store may be nil, in
// which case every page operation fails with a descriptive error rather than
// silently dropping state.
type Config struct {
	Registry *Registry
	Store    Store
	TTL      time.Duration
	Logger   zerolog.Logger
}

// Manager owns the live-page cache and the rehydration path. While a page is
// cached its in-memory instance is authoritative; after eviction the stored
// record takes over as the sole source of truth.
type Manager struct {
	reg   *Registry
	store Store
	cache *ttlcache.Cache[string, *Instance]
	log   zerolog.Logger
}

// Instance wraps a live page with its message location and the most recent
// interaction that targeted it. Component handling against one instance is
// serialized by its mutex: discordgo delivers events on separate goroutines,
// so two near-simultaneous clicks would otherwise race on page state.
type Instance struct {
	mu   sync.Mutex
	page Page
	loc  Location
	last *discordgo.InteractionCreate
	mgr  *Manager
}

// Page returns the wrapped page.
func (in *Instance) Page() Page { return in.page }

// Location returns the backing message's address.
func (in *Instance) Location() Location { return in.loc }

// LastInteraction returns the most recent interaction routed to this page.
func (in *Instance) LastInteraction() *discordgo.InteractionCreate { return in.last }

// NewManager builds a Manager around the given registry and store.
func NewManager(cfg Config) *Manager {
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	m := &Manager{
		reg:   cfg.Registry,
		store: cfg.Store,
		log:   cfg.Logger,
	}
	m.cache = ttlcache.New[string, *Instance](cfg.TTL, m.evict)
	return m
}

// evict runs when an instance sits idle past its TTL. The optional hook fires
// before the in-memory object is discarded; the persisted record survives.
func (m *Manager) evict(messageID string, in *Instance) {
	m.log.Debug().Str("message_id", messageID).Str("page_id", in.page.PageID()).Msg("evicting idle page")
	if ev, ok := in.page.(Evictable); ok {
		ev.OnEvict(context.Background())
	}
}

// Registry returns the page type registry the manager rehydrates against.
func (m *Manager) Registry() *Registry { return m.reg }

// Stop drops all cached instances without invoking eviction hooks.
func (m *Manager) Stop() { m.cache.Stop() }

func (m *Manager) requireStore() error {
	if m.store == nil {
		return fmt.Errorf("pages: no persistence configured; set Config.Store before using page features")
	}
	return nil
}

// Send renders the page into a new channel message, persists its state, and
// caches the live instance.
func (m *Manager) Send(ctx context.Context, s *discordgo.Session, guildID, channelID string, p Page) (*Instance, error) {
	if err := m.requireStore(); err != nil {
		return nil, err
	}
	r, err := p.Render()
	if err != nil {
		return nil, fmt.Errorf("pages: render %q: %w", p.PageID(), err)
	}
	msg, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    r.Content,
		Embeds:     r.Embeds,
		Components: r.Components,
	})
	if err != nil {
		return nil, fmt.Errorf("pages: send %q: %w", p.PageID(), err)
	}
	return m.track(ctx, p, ChannelLocation(guildID, channelID, msg.ID))
}

// SendEphemeral renders the page into an ephemeral followup on the given
// interaction and tracks it through the interaction's webhook handle. The
// interaction must already be deferred or responded to.
func (m *Manager) SendEphemeral(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, p Page) (*Instance, error) {
	if err := m.requireStore(); err != nil {
		return nil, err
	}
	r, err := p.Render()
	if err != nil {
		return nil, fmt.Errorf("pages: render %q: %w", p.PageID(), err)
	}
	msg, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content:    r.Content,
		Embeds:     r.Embeds,
		Components: r.Components,
		Flags:      discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		return nil, fmt.Errorf("pages: send ephemeral %q: %w", p.PageID(), err)
	}
	return m.track(ctx, p, WebhookLocation(i.AppID, i.Token, msg.ID))
}

// track persists the freshly sent page and inserts its instance into the cache.
func (m *Manager) track(ctx context.Context, p Page, loc Location) (*Instance, error) {
	in := &Instance{page: p, loc: loc, mgr: m}
	if err := m.persist(ctx, in); err != nil {
		return nil, err
	}
	m.cache.Set(loc.MessageID, in)
	m.log.Debug().Str("message_id", loc.MessageID).Str("page_id", p.PageID()).Msg("page tracked")
	return in, nil
}

// Update re-renders the page, edits its backing message, and persists the
// new state.
func (m *Manager) Update(ctx context.Context, s *discordgo.Session, in *Instance) error {
	r, err := in.page.Render()
	if err != nil {
		return fmt.Errorf("pages: render %q: %w", in.page.PageID(), err)
	}
	if err := in.loc.Edit(s, r); err != nil {
		return fmt.Errorf("pages: edit message %s: %w", in.loc.MessageID, err)
	}
	return m.persist(ctx, in)
}

// persist writes the page's current state through the store.
func (m *Manager) persist(ctx context.Context, in *Instance) error {
	if err := m.requireStore(); err != nil {
		return err
	}
	state, err := in.page.MarshalState()
	if err != nil {
		return fmt.Errorf("pages: marshal state for %q: %w", in.page.PageID(), err)
	}
	loc, err := in.loc.Encode()
	if err != nil {
		return err
	}
	rec := Record{PageID: in.page.PageID(), State: state, Location: loc}
	if err := m.store.SavePage(ctx, in.loc.MessageID, rec); err != nil {
		return fmt.Errorf("pages: save state for message %s: %w", in.loc.MessageID, err)
	}
	return nil
}

// Close removes the page: the backing message is deleted, or edited to a
// static notice when it is ephemeral, and the instance leaves the cache.
func (m *Manager) Close(ctx context.Context, s *discordgo.Session, in *Instance) error {
	m.cache.Delete(in.loc.MessageID)
	return m.closeMessage(s, in.loc)
}

func (m *Manager) closeMessage(s *discordgo.Session, loc Location) error {
	if loc.Ephemeral() {
		return loc.Edit(s, &Render{Content: closedNotice, Embeds: []*discordgo.MessageEmbed{}, Components: []discordgo.MessageComponent{}})
	}
	return loc.Delete(s)
}

// HandleComponent routes a message-component interaction to its page. A
// cache hit is routed in place (the lookup slides the idle timer); a miss
// goes through rehydration. Returns false when the message has no stored
// page state at all.
func (m *Manager) HandleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) (bool, error) {
	if i.Message == nil {
		return false, nil
	}
	messageID := i.Message.ID

	in, ok := m.cache.Get(messageID)
	if !ok {
		var err error
		in, err = m.rehydrate(ctx, s, i, messageID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return false, nil
			}
			return true, err
		}
		if in == nil {
			// Deserializer declared the page gone; message already closed.
			return true, nil
		}
	}
	return true, m.route(ctx, s, i, in)
}

// rehydrate rebuilds a live instance from the stored record. Store failures
// are fatal for this interaction and are not retried. A nil instance with a
// nil error means the page was closed during rehydration.
func (m *Manager) rehydrate(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, messageID string) (*Instance, error) {
	if err := m.requireStore(); err != nil {
		return nil, err
	}
	rec, err := m.store.LoadPage(ctx, messageID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pages: load state for message %s: %w", messageID, err)
	}

	loc, err := DecodeLocation(rec.Location)
	if err != nil {
		return nil, fmt.Errorf("pages: message %s: %w", messageID, err)
	}

	t, ok := m.reg.Get(rec.PageID)
	if !ok {
		return nil, fmt.Errorf("pages: no page type registered for %q (message %s)", rec.PageID, messageID)
	}

	p, err := t.Deserialize(ctx, i, rec.State)
	if err != nil {
		if errors.Is(err, ErrPageGone) {
			m.log.Debug().Str("message_id", messageID).Str("page_id", rec.PageID).Msg("stored page no longer valid, closing")
			if cerr := m.closeMessage(s, loc); cerr != nil {
				m.log.Error().Err(cerr).Str("message_id", messageID).Msg("failed to close expired page message")
			}
			return nil, nil
		}
		return nil, fmt.Errorf("pages: deserialize %q for message %s: %w", rec.PageID, messageID, err)
	}

	in := &Instance{page: p, loc: loc, mgr: m}
	// Materialize the page's current look before handing it interactions.
	r, err := p.Render()
	if err != nil {
		return nil, fmt.Errorf("pages: render %q: %w", rec.PageID, err)
	}
	if err := loc.Edit(s, r); err != nil {
		return nil, fmt.Errorf("pages: edit message %s: %w", messageID, err)
	}
	m.cache.Set(messageID, in)
	m.log.Debug().Str("message_id", messageID).Str("page_id", rec.PageID).Msg("page rehydrated")
	return in, nil
}

// route delivers the interaction to the page, serialized per instance.
func (m *Manager) route(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, in *Instance) error {
	data := i.MessageComponentData()
	in.mu.Lock()
	defer in.mu.Unlock()
	in.last = i
	return in.page.Handle(ctx, &Event{
		Session:  s,
		Event:    i,
		CustomID: data.CustomID,
		Values:   data.Values,
		Instance: in,
	})
}
