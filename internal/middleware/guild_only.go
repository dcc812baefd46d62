package middleware

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"pagekit/pkg/router"
)

// WithGuildOnly rejects chat commands invoked outside a guild with an
// ephemeral notice instead of running the handler.
func WithGuildOnly() router.Middleware[router.ChatHandler] {
	return func(next router.ChatHandler) router.ChatHandler {
		return func(ctx context.Context, c *router.ChatContext) error {
			if c.Event.GuildID == "" {
				return c.Session.InteractionRespond(c.Event.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Content: "This command only works inside a server.",
						Flags:   discordgo.MessageFlagsEphemeral,
					},
				})
			}
			return next(ctx, c)
		}
	}
}
