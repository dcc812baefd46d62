package router

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Router is the read-only dispatch table produced by Load. Command and modal
// maps are not mutated after load; only the middleware chains are configured
// afterwards, before the session starts delivering events.
type Router struct {
	log              zerolog.Logger
	skipAutocomplete bool

	chat    map[string]*ChatCommand
	user    map[string]*UserCommand
	message map[string]*MessageCommand
	modals  map[string]ModalHandler
	wire    []*discordgo.ApplicationCommand

	chatChain         Chain[ChatHandler]
	autocompleteChain Chain[AutocompleteHandler]
	menuChain         Chain[MenuHandler]
}

// Commands returns the registration-ready descriptors in manifest order.
func (r *Router) Commands() []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, len(r.wire))
	copy(out, r.wire)
	return out
}

// UseChat adds middleware around chat-command execution.
func (r *Router) UseChat(mw ...Middleware[ChatHandler]) { r.chatChain.Use(mw...) }

// UseAutocomplete adds middleware around autocomplete execution.
func (r *Router) UseAutocomplete(mw ...Middleware[AutocompleteHandler]) {
	r.autocompleteChain.Use(mw...)
}

// UseMenu adds middleware around context-menu execution.
func (r *Router) UseMenu(mw ...Middleware[MenuHandler]) { r.menuChain.Use(mw...) }

// CommandPath computes the dotted dispatch key for an inbound command
// interaction by descending its subcommand-group/subcommand options.
func CommandPath(data discordgo.ApplicationCommandInteractionData) string {
	path := data.Name
	opts := data.Options
	for len(opts) == 1 {
		switch opts[0].Type {
		case discordgo.ApplicationCommandOptionSubCommandGroup,
			discordgo.ApplicationCommandOptionSubCommand:
			path += "." + opts[0].Name
			opts = opts[0].Options
		default:
			return path
		}
	}
	return path
}

// leafOptions returns the innermost option list of a command interaction,
// past any subcommand-group/subcommand wrappers.
func leafOptions(data discordgo.ApplicationCommandInteractionData) []*discordgo.ApplicationCommandInteractionDataOption {
	opts := data.Options
	for len(opts) == 1 {
		switch opts[0].Type {
		case discordgo.ApplicationCommandOptionSubCommandGroup,
			discordgo.ApplicationCommandOptionSubCommand:
			opts = opts[0].Options
		default:
			return opts
		}
	}
	return opts
}

// HandleCommand dispatches a chat-command interaction by dotted name. It
// returns false when no such command is registered; the caller decides how to
// report that. Validation rejections are joined into one ephemeral reply and
// the handler is not invoked.
func (r *Router) HandleCommand(ctx context.Context, path string, s *discordgo.Session, i *discordgo.InteractionCreate) (bool, error) {
	cc, ok := r.chat[path]
	if !ok {
		return false, nil
	}

	data := i.ApplicationCommandData()
	chatCtx := &ChatContext{Session: s, Event: i, Path: path}

	values, rejections, err := resolveOptions(ctx, cc, chatCtx, leafOptions(data), data.Resolved, resolvePass{})
	if err != nil {
		return true, err
	}
	if len(rejections) > 0 {
		r.log.Debug().Str("path", path).Strs("rejections", rejections).Msg("command input rejected")
		return true, respondEphemeral(s, i, strings.Join(rejections, "\n"))
	}
	chatCtx.Values = values

	run := cc.Run
	if run == nil {
		run = notImplementedRun
	}
	return true, r.chatChain.Wrap(run)(ctx, chatCtx)
}

// HandleAutocomplete dispatches an autocomplete interaction. The focused
// option's own provider wins; the command-level handler is the fallback, and
// a placeholder response covers commands with neither. Validators never run
// on this path; required checks are skipped since input is partial.
func (r *Router) HandleAutocomplete(ctx context.Context, path string, s *discordgo.Session, i *discordgo.InteractionCreate) (bool, error) {
	cc, ok := r.chat[path]
	if !ok {
		return false, nil
	}

	data := i.ApplicationCommandData()
	raw := leafOptions(data)

	var focused *discordgo.ApplicationCommandInteractionDataOption
	for _, o := range raw {
		if o.Focused {
			focused = o
			break
		}
	}
	if focused == nil {
		return true, nil
	}

	acCtx := &AutocompleteContext{
		Session: s,
		Event:   i,
		Path:    path,
		Focused: focused.Name,
		Value:   focused.Value,
		Values:  Values{},
	}

	if !r.skipAutocomplete {
		chatCtx := &ChatContext{Session: s, Event: i, Path: path}
		values, _, err := resolveOptions(ctx, cc, chatCtx, raw, data.Resolved,
			resolvePass{autocomplete: true, skipRequired: true})
		if err != nil {
			return true, err
		}
		acCtx.Values = values
	}

	handler := cc.Autocomplete
	for _, opt := range cc.Options {
		if opt.Name == focused.Name && opt.Autocomplete != nil {
			// The per-option provider closes over the focused option; the
			// generic pipeline signature stays uniform.
			provider := opt.Autocomplete
			handler = func(ctx context.Context, c *AutocompleteContext) error {
				choices, err := provider(ctx, c)
				if err != nil {
					return err
				}
				return RespondChoices(c.Session, c.Event, choices)
			}
			break
		}
	}
	if handler == nil {
		handler = notImplementedAutocomplete
	}
	return true, r.autocompleteChain.Wrap(handler)(ctx, acCtx)
}

// MenuKind discriminates the two context-menu command registries.
type MenuKind int

const (
	UserMenu MenuKind = iota
	MessageMenu
)

// HandleContextMenu dispatches a context-menu interaction of the given kind.
// Returns false when no command of that kind carries the name.
func (r *Router) HandleContextMenu(ctx context.Context, kind MenuKind, name string, s *discordgo.Session, i *discordgo.InteractionCreate) (bool, error) {
	data := i.ApplicationCommandData()
	menuCtx := &MenuContext{Session: s, Event: i}

	var run MenuHandler
	switch kind {
	case UserMenu:
		uc, ok := r.user[name]
		if !ok {
			return false, nil
		}
		run = uc.Run
		if data.Resolved != nil {
			menuCtx.TargetUser = data.Resolved.Users[data.TargetID]
		}
	case MessageMenu:
		mc, ok := r.message[name]
		if !ok {
			return false, nil
		}
		run = mc.Run
		if data.Resolved != nil {
			menuCtx.TargetMessage = data.Resolved.Messages[data.TargetID]
		}
	default:
		return false, nil
	}

	if run == nil {
		return true, respondEphemeral(s, i, "This command is not implemented yet.")
	}
	return true, r.menuChain.Wrap(run)(ctx, menuCtx)
}

// RespondChoices answers an autocomplete interaction with up to 25 choices.
func RespondChoices(s *discordgo.Session, i *discordgo.InteractionCreate, choices []Choice) error {
	if len(choices) > 25 {
		choices = choices[:25]
	}
	wire := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(choices))
	for _, ch := range choices {
		wire = append(wire, &discordgo.ApplicationCommandOptionChoice{
			Name:              ch.Name,
			NameLocalizations: ch.NameLocalizations,
			Value:             ch.Value,
		})
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: wire},
	})
}

// respondEphemeral sends a plain ephemeral reply to an interaction.
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
