package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"pagekit/internal/discord"
	"pagekit/pkg/pages"
	"pagekit/pkg/router"
)

const counterPageID = "counter"

// counterPage is a minimal stateful page: a label, a count, and two buttons.
type counterPage struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

func (p *counterPage) PageID() string { return counterPageID }

func (p *counterPage) MarshalState() (string, error) {
	data, err := json.Marshal(p)
	return string(data), err
}

func (p *counterPage) Render() (*pages.Render, error) {
	return &pages.Render{
		Content: fmt.Sprintf("**%s**: %d", p.Label, p.Count),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "+1", Style: discordgo.PrimaryButton, CustomID: "counter:inc"},
				discordgo.Button{Label: "Reset", Style: discordgo.SecondaryButton, CustomID: "counter:reset"},
			}},
		},
	}, nil
}

func (p *counterPage) Handle(ctx context.Context, ev *pages.Event) error {
	switch strings.TrimPrefix(ev.CustomID, "counter:") {
	case "inc":
		p.Count++
	case "reset":
		p.Count = 0
	default:
		return ev.Ack()
	}
	if err := ev.Ack(); err != nil {
		return err
	}
	return ev.Update(ctx)
}

func counterPageType() pages.Type {
	return pages.Type{
		ID: counterPageID,
		Deserialize: func(_ context.Context, _ *discordgo.InteractionCreate, state string) (pages.Page, error) {
			var p counterPage
			if err := json.Unmarshal([]byte(state), &p); err != nil {
				return nil, err
			}
			return &p, nil
		},
	}
}

func counterCommand(d *Deps) *router.ChatCommand {
	return &router.ChatCommand{
		Name:        "counter",
		Description: "Post an interactive counter",
		Options: []*router.Option{
			{
				Name:        "label",
				Description: "Counter label",
				Type:        router.StringOption,
				MaxLength:   intPtr(64),
			},
			{
				Name:        "private",
				Description: "Post the counter as an ephemeral message only you can see",
				Type:        router.BooleanOption,
			},
		},
		Run: func(ctx context.Context, c *router.ChatContext) error {
			label := c.Values.String("label")
			if label == "" {
				label = "Counter"
			}
			page := &counterPage{Label: label}

			if c.Values.Bool("private") {
				if err := discord.RespondDeferredEphemeral(c.Session, c.Event); err != nil {
					return err
				}
				_, err := d.Pages.SendEphemeral(ctx, c.Session, c.Event, page)
				return err
			}

			// Confirm only once the page message actually exists.
			if _, err := d.Pages.Send(ctx, c.Session, c.Event.GuildID, c.Event.ChannelID, page); err != nil {
				return err
			}
			return respondEphemeral(c, "Counter posted.")
		},
	}
}
