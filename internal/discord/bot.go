package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"pagekit/internal/config"
	"pagekit/internal/storage"
	"pagekit/pkg/pages"
	"pagekit/pkg/router"
)

// Bot ties the discordgo session to the command router and page manager.
type Bot struct {
	dg      *discordgo.Session
	cfg     *config.Config
	router  *router.Router
	pages   *pages.Manager
	storage *storage.Storage
	log     zerolog.Logger
	// limiter paces registration calls when the bot sits in many guilds.
	limiter *rate.Limiter
}

// NewBot builds a Bot around an already loaded router and page manager.
func NewBot(cfg *config.Config, r *router.Router, pm *pages.Manager, store *storage.Storage, log zerolog.Logger) *Bot {
	return &Bot{
		cfg:     cfg,
		router:  r,
		pages:   pm,
		storage: store,
		log:     log.With().Str("component", "discord").Logger(),
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
}

// Run opens the Discord session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, closing session")
	return nil
}

// onReady registers commands for every connected guild (or the configured
// subset) once the gateway reports ready.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("gateway ready")

	if !b.cfg.InitSlashCommands {
		b.log.Info().Msg("slash command registration skipped")
		return
	}

	guildIDs := b.cfg.DiscordGuildIDs
	if len(guildIDs) == 0 {
		for _, g := range r.Guilds {
			guildIDs = append(guildIDs, g.ID)
		}
	}
	for _, gid := range guildIDs {
		if err := b.registerCommands(context.Background(), gid); err != nil {
			b.log.Error().Err(err).Str("guild_id", gid).Msg("command registration failed")
		}
	}
}

// onGuildCreate registers commands when the bot joins a new guild.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if !b.cfg.InitSlashCommands {
		return
	}
	b.log.Info().Str("guild_id", g.ID).Str("guild", g.Name).Msg("joined guild")
	if err := b.registerCommands(context.Background(), g.ID); err != nil {
		b.log.Error().Err(err).Str("guild_id", g.ID).Msg("command registration failed")
	}
}

// onInteractionCreate fans inbound interactions out to the router and the
// page manager by interaction type.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleApplicationCommand(ctx, s, i)

	case discordgo.InteractionApplicationCommandAutocomplete:
		path := router.CommandPath(i.ApplicationCommandData())
		ok, err := b.router.HandleAutocomplete(ctx, path, s, i)
		if !ok {
			b.log.Warn().Str("path", path).Msg("autocomplete for unknown command")
			return
		}
		if err != nil {
			b.log.Error().Err(err).Str("path", path).Msg("autocomplete failed")
		}

	case discordgo.InteractionMessageComponent:
		ok, err := b.pages.HandleComponent(ctx, s, i)
		if !ok {
			b.log.Debug().Str("custom_id", i.MessageComponentData().CustomID).Msg("component with no tracked page")
			return
		}
		if err != nil {
			b.log.Error().Err(err).Msg("component handling failed")
			b.replyError(s, i, err)
		}

	case discordgo.InteractionModalSubmit:
		customID := i.ModalSubmitData().CustomID
		ok, err := b.router.HandleModal(ctx, customID, s, i)
		if !ok {
			b.log.Warn().Str("custom_id", customID).Msg("unknown modal template")
			return
		}
		if err != nil {
			b.log.Error().Err(err).Str("custom_id", customID).Msg("modal handling failed")
			b.replyError(s, i, err)
		}
	}
}

func (b *Bot) handleApplicationCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	switch data.CommandType {
	case discordgo.UserApplicationCommand:
		ok, err := b.router.HandleContextMenu(ctx, router.UserMenu, data.Name, s, i)
		b.reportDispatch(s, i, "user command", data.Name, ok, err)
	case discordgo.MessageApplicationCommand:
		ok, err := b.router.HandleContextMenu(ctx, router.MessageMenu, data.Name, s, i)
		b.reportDispatch(s, i, "message command", data.Name, ok, err)
	default:
		path := router.CommandPath(data)
		ok, err := b.router.HandleCommand(ctx, path, s, i)
		b.reportDispatch(s, i, "chat command", path, ok, err)
	}
}

// reportDispatch logs dispatch misses and surfaces handler errors to the
// invoking user. Misses are dropped silently on the wire: the platform should
// not send commands that were never registered.
func (b *Bot) reportDispatch(s *discordgo.Session, i *discordgo.InteractionCreate, kind, name string, ok bool, err error) {
	if !ok {
		b.log.Warn().Str("name", name).Msgf("unknown %s", kind)
		return
	}
	if err != nil {
		b.log.Error().Err(err).Str("name", name).Msgf("%s failed", kind)
		b.replyError(s, i, err)
	}
}

func (b *Bot) replyError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	msg := fmt.Sprintf("Error running command: %v", err)
	embed := &discordgo.MessageEmbed{Color: EmbedColor, Description: msg}
	if rerr := RespondEmbedEphemeral(s, i, embed); rerr != nil {
		// The handler may have responded already; a followup still reaches
		// the user through the interaction webhook.
		if ferr := FollowupEphemeral(s, i, msg); ferr != nil {
			b.log.Debug().Err(ferr).Msg("error reply not delivered")
		}
	}
}
