package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"pagekit/pkg/pages"
	"pagekit/pkg/router"
)

const pollPageID = "poll"

// pollPage is a select-menu poll with an expiry; rehydrating an expired poll
// closes the backing message instead of reviving it.
type pollPage struct {
	Question  string            `json:"question"`
	Choices   []string          `json:"choices"`
	Votes     map[string]string `json:"votes"` // userID -> choice
	ExpiresAt time.Time         `json:"expires_at"`
}

func (p *pollPage) PageID() string { return pollPageID }

func (p *pollPage) MarshalState() (string, error) {
	data, err := json.Marshal(p)
	return string(data), err
}

func (p *pollPage) Render() (*pages.Render, error) {
	tally := make(map[string]int, len(p.Choices))
	for _, choice := range p.Votes {
		tally[choice]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", p.Question)
	for _, choice := range p.Choices {
		fmt.Fprintf(&b, "%s — %d\n", choice, tally[choice])
	}
	fmt.Fprintf(&b, "_Closes %s_", p.ExpiresAt.UTC().Format(time.RFC1123))

	opts := make([]discordgo.SelectMenuOption, 0, len(p.Choices))
	for _, choice := range p.Choices {
		opts = append(opts, discordgo.SelectMenuOption{Label: choice, Value: choice})
	}
	return &pages.Render{
		Content: b.String(),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{CustomID: "poll:vote", Placeholder: "Cast your vote", Options: opts},
			}},
		},
	}, nil
}

func (p *pollPage) Handle(ctx context.Context, ev *pages.Event) error {
	if len(ev.Values) == 0 {
		return ev.Ack()
	}
	user := ev.Event.Member
	if user == nil || user.User == nil {
		return ev.Ack()
	}
	if p.Votes == nil {
		p.Votes = make(map[string]string)
	}
	p.Votes[user.User.ID] = ev.Values[0]
	if err := ev.Ack(); err != nil {
		return err
	}
	return ev.Update(ctx)
}

func pollPageType() pages.Type {
	return pages.Type{
		ID: pollPageID,
		Deserialize: func(_ context.Context, _ *discordgo.InteractionCreate, state string) (pages.Page, error) {
			var p pollPage
			if err := json.Unmarshal([]byte(state), &p); err != nil {
				return nil, err
			}
			if time.Now().After(p.ExpiresAt) {
				return nil, pages.ErrPageGone
			}
			return &p, nil
		},
	}
}

func pollCommand(d *Deps) *router.ChatCommand {
	return &router.ChatCommand{
		Name:        "poll",
		Description: "Start a poll",
		Options: []*router.Option{
			{
				Name:        "question",
				Description: "What to ask",
				Type:        router.StringOption,
				Required:    true,
				MaxLength:   intPtr(200),
			},
			{
				Name:        "choices",
				Description: "Comma-separated choices",
				Type:        router.StringOption,
				Required:    true,
				Validate: func(_ context.Context, _ *router.ChatContext, v any) error {
					if len(splitChoices(v.(string))) < 2 {
						return router.Rejectf("a poll needs at least two choices")
					}
					return nil
				},
				// The handler receives a ready []string, not the raw text.
				Transform: func(_ context.Context, _ *router.ChatContext, v any) (any, error) {
					return splitChoices(v.(string)), nil
				},
			},
			{
				Name:        "minutes",
				Description: "How long the poll stays open",
				Type:        router.IntegerOption,
				MinValue:    float64Ptr(1),
				MaxValue:    float64Ptr(1440),
			},
		},
		Run: func(ctx context.Context, c *router.ChatContext) error {
			choices, _ := c.Values["choices"].([]string)
			minutes := c.Values.Int("minutes")
			if minutes == 0 {
				minutes = 60
			}
			if err := respondEphemeral(c, "Poll started."); err != nil {
				return err
			}
			_, err := d.Pages.Send(ctx, c.Session, c.Event.GuildID, c.Event.ChannelID, &pollPage{
				Question:  c.Values.String("question"),
				Choices:   choices,
				Votes:     map[string]string{},
				ExpiresAt: time.Now().Add(time.Duration(minutes) * time.Minute),
			})
			return err
		},
	}
}

func splitChoices(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
