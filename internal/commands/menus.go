package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"pagekit/internal/discord"
	"pagekit/pkg/router"
)

func reportUserCommand() *router.UserCommand {
	return &router.UserCommand{
		Name: "Report User",
		Run: func(_ context.Context, c *router.MenuContext) error {
			name := "that user"
			if c.TargetUser != nil {
				name = c.TargetUser.Username
			}
			return discord.RespondEphemeral(c.Session, c.Event,
				fmt.Sprintf("Thanks, your report on %s has been recorded.", name))
		},
	}
}

func quoteMessageCommand() *router.MessageCommand {
	return &router.MessageCommand{
		Name: "Quote Message",
		Run: func(_ context.Context, c *router.MenuContext) error {
			if c.TargetMessage == nil {
				return fmt.Errorf("quote: no target message resolved")
			}
			embed := &discordgo.MessageEmbed{
				Color:       discord.EmbedColor,
				Description: c.TargetMessage.Content,
				Footer:      &discordgo.MessageEmbedFooter{Text: c.TargetMessage.Author.Username},
			}
			return discord.RespondEmbed(c.Session, c.Event, embed)
		},
	}
}
