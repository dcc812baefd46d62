// Package router is a command-routing layer for discordgo applications.
// Commands are declared in an explicit manifest (chat commands with up to two
// levels of grouping, plus user and message context-menu commands), loaded
// into a read-only registry keyed by dotted name, and dispatched to their
// handlers after per-option validation and transformation. Middleware wraps
// dispatch for chat commands, autocomplete, and context menus independently.
package router

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// ChatContext carries everything a chat-command handler needs: the session,
// the triggering interaction, the command's dotted dispatch path, and the
// validated, transformed option values keyed by option name.
type ChatContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Path    string
	Values  Values
}

// AutocompleteContext is the autocomplete counterpart of ChatContext.
// Focused names the option being typed; Value is its raw partial input.
type AutocompleteContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Path    string
	Focused string
	Value   any
	Values  Values
}

// MenuContext carries a context-menu invocation. Exactly one of TargetUser or
// TargetMessage is set, matching the command kind.
type MenuContext struct {
	Session       *discordgo.Session
	Event         *discordgo.InteractionCreate
	TargetUser    *discordgo.User
	TargetMessage *discordgo.Message
}

// ModalContext carries a modal submission. CustomID is the full submitted
// custom ID including the instance nonce.
type ModalContext struct {
	Session  *discordgo.Session
	Event    *discordgo.InteractionCreate
	CustomID string
}

type (
	ChatHandler         func(ctx context.Context, c *ChatContext) error
	AutocompleteHandler func(ctx context.Context, c *AutocompleteContext) error
	MenuHandler         func(ctx context.Context, c *MenuContext) error
	ModalHandler        func(ctx context.Context, c *ModalContext) error
)

// ChatNode is a sealed variant: either *ChatCommand or *Group. The closed set
// replaces runtime shape probing with compile-time checked registration.
type ChatNode interface {
	chatNode()
}

// ChatCommand describes a slash command leaf. Run and Autocomplete are both
// optional: a missing Run dispatches to a "not implemented yet" reply, and a
// missing Autocomplete answers with a single placeholder choice.
type ChatCommand struct {
	Name                     string
	Description              string
	NameLocalizations        map[discordgo.Locale]string
	DescriptionLocalizations map[discordgo.Locale]string
	DefaultMemberPermissions *int64
	DMPermission             *bool
	Options                  []*Option
	Run                      ChatHandler
	Autocomplete             AutocompleteHandler
}

func (*ChatCommand) chatNode() {}

// Group is a subcommand group (or a grouped top-level command). Children may
// be leaves or, at the top level only, nested groups of leaves; the manifest
// allows at most command → group → subcommand.
type Group struct {
	Name                     string
	Description              string
	NameLocalizations        map[discordgo.Locale]string
	DescriptionLocalizations map[discordgo.Locale]string
	DefaultMemberPermissions *int64
	DMPermission             *bool
	Children                 []ChatNode
}

func (*Group) chatNode() {}

// UserCommand is a user context-menu command. Context-menu commands are
// always leaves; the manifest has no place to nest them.
type UserCommand struct {
	Name                     string
	NameLocalizations        map[discordgo.Locale]string
	DefaultMemberPermissions *int64
	DMPermission             *bool
	Run                      MenuHandler
}

// MessageCommand is a message context-menu command.
type MessageCommand struct {
	Name                     string
	NameLocalizations        map[discordgo.Locale]string
	DefaultMemberPermissions *int64
	DMPermission             *bool
	Run                      MenuHandler
}

// ModalTemplate binds a modal custom-ID prefix to its submit handler.
type ModalTemplate struct {
	ID      string
	Handler ModalHandler
}

// notImplementedRun is the terminal handler for chat commands declared
// without a Run.
func notImplementedRun(_ context.Context, c *ChatContext) error {
	return respondEphemeral(c.Session, c.Event, "This command is not implemented yet.")
}

// notImplementedAutocomplete answers with one placeholder choice so the
// client UI stays responsive for commands without a provider.
func notImplementedAutocomplete(_ context.Context, c *AutocompleteContext) error {
	return RespondChoices(c.Session, c.Event, []Choice{{Name: "not implemented", Value: "not-implemented"}})
}
