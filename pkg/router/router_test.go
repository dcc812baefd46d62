package router

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandPath(t *testing.T) {
	cases := []struct {
		name string
		data discordgo.ApplicationCommandInteractionData
		want string
	}{
		{
			name: "top level",
			data: discordgo.ApplicationCommandInteractionData{Name: "ping"},
			want: "ping",
		},
		{
			name: "subcommand",
			data: discordgo.ApplicationCommandInteractionData{
				Name: "tag",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{{
					Name: "get",
					Type: discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandInteractionDataOption{
						stringOpt("name", "greeting"),
					},
				}},
			},
			want: "tag.get",
		},
		{
			name: "subcommand group",
			data: discordgo.ApplicationCommandInteractionData{
				Name: "tag",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{{
					Name: "admin",
					Type: discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandInteractionDataOption{{
						Name: "purge",
						Type: discordgo.ApplicationCommandOptionSubCommand,
					}},
				}},
			},
			want: "tag.admin.purge",
		},
		{
			name: "single plain option is not a path segment",
			data: discordgo.ApplicationCommandInteractionData{
				Name: "roll",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					intOpt("sides", 6),
				},
			},
			want: "roll",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CommandPath(tc.data))
		})
	}
}

func TestHandleCommandUnknownPath(t *testing.T) {
	r, err := Load(testConfig(), Manifest{Chat: []ChatNode{&ChatCommand{Name: "ping"}}})
	require.NoError(t, err)

	tr := &stubTransport{}
	handled, err := r.HandleCommand(context.Background(), "nope", stubSession(tr), commandInteraction("nope"))
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Zero(t, tr.count())
}

func TestHandleCommandRunsHandlerWithValues(t *testing.T) {
	var got Values
	r, err := Load(testConfig(), Manifest{Chat: []ChatNode{&ChatCommand{
		Name:    "echo",
		Options: []*Option{{Name: "text", Type: StringOption, Required: true}},
		Run: func(ctx context.Context, c *ChatContext) error {
			got = c.Values
			return nil
		},
	}}})
	require.NoError(t, err)

	handled, err := r.HandleCommand(context.Background(), "echo", stubSession(&stubTransport{}),
		commandInteraction("echo", stringOpt("text", "hi")))
	require.NoError(t, err)
	assert.True(t, handled)
	require.NotNil(t, got)
	assert.Equal(t, "hi", got.String("text"))
}

func TestHandleCommandRejectionsShortCircuitHandler(t *testing.T) {
	r, err := Load(testConfig(), Manifest{Chat: []ChatNode{&ChatCommand{
		Name: "echo",
		Options: []*Option{
			{Name: "a", Type: StringOption, Validate: func(ctx context.Context, c *ChatContext, v any) error {
				return Rejectf("a must not be %q", v)
			}},
			{Name: "b", Type: StringOption, Validate: func(ctx context.Context, c *ChatContext, v any) error {
				return Rejectf("b is never valid")
			}},
		},
		Run: func(ctx context.Context, c *ChatContext) error {
			t.Fatal("handler must not run on rejected input")
			return nil
		},
	}}})
	require.NoError(t, err)

	tr := &stubTransport{}
	handled, err := r.HandleCommand(context.Background(), "echo", stubSession(tr),
		commandInteraction("echo", stringOpt("a", "x"), stringOpt("b", "y")))
	require.NoError(t, err)
	assert.True(t, handled)

	resp, ok := tr.lastResponse()
	require.True(t, ok)
	require.NotNil(t, resp.Data)
	lines := strings.Split(resp.Data.Content, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `a must not be "x"`, lines[0])
	assert.Equal(t, "b is never valid", lines[1])
	assert.NotZero(t, resp.Data.Flags&discordgo.MessageFlagsEphemeral)
}

func TestHandleCommandDefaultRun(t *testing.T) {
	r, err := Load(testConfig(), Manifest{Chat: []ChatNode{&ChatCommand{Name: "wip"}}})
	require.NoError(t, err)

	tr := &stubTransport{}
	handled, err := r.HandleCommand(context.Background(), "wip", stubSession(tr), commandInteraction("wip"))
	require.NoError(t, err)
	assert.True(t, handled)

	resp, ok := tr.lastResponse()
	require.True(t, ok)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "This command is not implemented yet.", resp.Data.Content)
	assert.NotZero(t, resp.Data.Flags&discordgo.MessageFlagsEphemeral)
}

func TestHandleAutocompletePerOptionProviderWins(t *testing.T) {
	r, err := Load(testConfig(), Manifest{Chat: []ChatNode{&ChatCommand{
		Name: "tag",
		Options: []*Option{{
			Name: "name",
			Type: StringOption,
			Autocomplete: func(ctx context.Context, c *AutocompleteContext) ([]Choice, error) {
				return []Choice{{Name: "greeting", Value: "greeting"}}, nil
			},
		}},
		Autocomplete: func(ctx context.Context, c *AutocompleteContext) error {
			t.Fatal("command-level fallback must not run when the option has a provider")
			return nil
		},
	}}})
	require.NoError(t, err)

	tr := &stubTransport{}
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:    "interaction-1",
		Type:  discordgo.InteractionApplicationCommandAutocomplete,
		Token: "token",
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "tag",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name:    "name",
				Type:    discordgo.ApplicationCommandOptionString,
				Value:   "gre",
				Focused: true,
			}},
		},
	}}

	handled, err := r.HandleAutocomplete(context.Background(), "tag", stubSession(tr), i)
	require.NoError(t, err)
	assert.True(t, handled)

	resp, ok := tr.lastResponse()
	require.True(t, ok)
	assert.Equal(t, discordgo.InteractionApplicationCommandAutocompleteResult, resp.Type)
	require.NotNil(t, resp.Data)
	require.Len(t, resp.Data.Choices, 1)
	assert.Equal(t, "greeting", resp.Data.Choices[0].Name)
}

func TestHandleAutocompletePlaceholderWithoutProvider(t *testing.T) {
	r, err := Load(testConfig(), Manifest{Chat: []ChatNode{&ChatCommand{
		Name:    "tag",
		Options: []*Option{{Name: "name", Type: StringOption}},
	}}})
	require.NoError(t, err)

	tr := &stubTransport{}
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:    "interaction-1",
		Type:  discordgo.InteractionApplicationCommandAutocomplete,
		Token: "token",
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "tag",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name:    "name",
				Type:    discordgo.ApplicationCommandOptionString,
				Value:   "x",
				Focused: true,
			}},
		},
	}}

	handled, err := r.HandleAutocomplete(context.Background(), "tag", stubSession(tr), i)
	require.NoError(t, err)
	assert.True(t, handled)

	resp, ok := tr.lastResponse()
	require.True(t, ok)
	require.NotNil(t, resp.Data)
	require.Len(t, resp.Data.Choices, 1)
	assert.Equal(t, "not implemented", resp.Data.Choices[0].Name)
}

func TestRespondChoicesCapsAtTwentyFive(t *testing.T) {
	choices := make([]Choice, 30)
	for i := range choices {
		choices[i] = Choice{Name: "c", Value: i}
	}

	tr := &stubTransport{}
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID: "interaction-1", Token: "token",
	}}
	require.NoError(t, RespondChoices(stubSession(tr), i, choices))

	resp, ok := tr.lastResponse()
	require.True(t, ok)
	require.NotNil(t, resp.Data)
	assert.Len(t, resp.Data.Choices, 25)
}

func TestHandleModal(t *testing.T) {
	var gotCustomID string
	r, err := Load(testConfig(), Manifest{Modals: []*ModalTemplate{{
		ID: "feedback",
		Handler: func(ctx context.Context, c *ModalContext) error {
			gotCustomID = c.CustomID
			return nil
		},
	}}})
	require.NoError(t, err)

	customID := ModalCustomID("feedback")
	assert.True(t, strings.HasPrefix(customID, "feedback:"))

	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionModalSubmit}}
	handled, err := r.HandleModal(context.Background(), customID, nil, i)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, customID, gotCustomID)

	handled, err = r.HandleModal(context.Background(), "unknown:abc", nil, i)
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestTextInputValue(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "feedback:text", Value: "great bot"},
			}},
		},
	}
	assert.Equal(t, "great bot", TextInputValue(data, "feedback:text"))
	assert.Equal(t, "", TextInputValue(data, "missing"))
}
