package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"pagekit/pkg/router"
)

const feedbackModalID = "feedback"

func feedbackCommand() *router.ChatCommand {
	return &router.ChatCommand{
		Name:        "feedback",
		Description: "Send feedback to the bot authors",
		Run: func(_ context.Context, c *router.ChatContext) error {
			return c.Session.InteractionRespond(c.Event.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseModal,
				Data: &discordgo.InteractionResponseData{
					CustomID: router.ModalCustomID(feedbackModalID),
					Title:    "Feedback",
					Components: []discordgo.MessageComponent{
						discordgo.ActionsRow{Components: []discordgo.MessageComponent{
							discordgo.TextInput{
								CustomID:  "feedback:text",
								Label:     "What's on your mind?",
								Style:     discordgo.TextInputParagraph,
								Required:  true,
								MaxLength: 1000,
							},
						}},
					},
				},
			})
		},
	}
}

func feedbackModal(d *Deps) *router.ModalTemplate {
	return &router.ModalTemplate{
		ID: feedbackModalID,
		Handler: func(_ context.Context, c *router.ModalContext) error {
			text := router.TextInputValue(c.Event.ModalSubmitData(), "feedback:text")
			d.Log.Info().Int("length", len(text)).Msg("feedback received")

			return c.Session.InteractionRespond(c.Event.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: "Thanks for the feedback!",
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			})
		},
	}
}
