package router

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// PlaceholderDescription fills in for groups declared without one, mirroring
// the platform's requirement that every command and group carries text.
const PlaceholderDescription = "No description provided"

// Manifest is the full, statically declared command tree. Chat nodes may nest
// command → group → subcommand; user/message commands and modal templates are
// flat by construction.
type Manifest struct {
	Chat    []ChatNode
	User    []*UserCommand
	Message []*MessageCommand
	Modals  []*ModalTemplate
}

// Config carries router-wide settings.
type Config struct {
	Logger zerolog.Logger
	// SkipAutocompleteValidation bypasses option resolution on autocomplete
	// dispatch; providers then see only the focused raw value.
	SkipAutocompleteValidation bool
}

// Load builds a Router from the manifest. Any structural violation (duplicate
// dispatch key, empty name, nesting beyond three levels, empty group) aborts
// the whole load; nothing is usable from a partially loaded manifest.
func Load(cfg Config, m Manifest) (*Router, error) {
	r := &Router{
		log:              cfg.Logger,
		skipAutocomplete: cfg.SkipAutocompleteValidation,
		chat:             make(map[string]*ChatCommand),
		user:             make(map[string]*UserCommand),
		message:          make(map[string]*MessageCommand),
		modals:           make(map[string]ModalHandler),
	}

	for _, node := range m.Chat {
		def, err := r.loadChatNode(node)
		if err != nil {
			return nil, err
		}
		r.wire = append(r.wire, def)
	}

	for _, uc := range m.User {
		if uc.Name == "" {
			return nil, fmt.Errorf("router: user command with empty name")
		}
		if _, dup := r.user[uc.Name]; dup {
			return nil, fmt.Errorf("router: duplicate user command %q", uc.Name)
		}
		r.user[uc.Name] = uc
		r.wire = append(r.wire, &discordgo.ApplicationCommand{
			Type:                     discordgo.UserApplicationCommand,
			Name:                     uc.Name,
			NameLocalizations:        localePtr(uc.NameLocalizations),
			DefaultMemberPermissions: uc.DefaultMemberPermissions,
			DMPermission:             uc.DMPermission,
		})
	}

	for _, mc := range m.Message {
		if mc.Name == "" {
			return nil, fmt.Errorf("router: message command with empty name")
		}
		if _, dup := r.message[mc.Name]; dup {
			return nil, fmt.Errorf("router: duplicate message command %q", mc.Name)
		}
		r.message[mc.Name] = mc
		r.wire = append(r.wire, &discordgo.ApplicationCommand{
			Type:                     discordgo.MessageApplicationCommand,
			Name:                     mc.Name,
			NameLocalizations:        localePtr(mc.NameLocalizations),
			DefaultMemberPermissions: mc.DefaultMemberPermissions,
			DMPermission:             mc.DMPermission,
		})
	}

	for _, mt := range m.Modals {
		if mt.ID == "" {
			return nil, fmt.Errorf("router: modal template with empty id")
		}
		if mt.Handler == nil {
			return nil, fmt.Errorf("router: modal template %q has no handler", mt.ID)
		}
		if _, dup := r.modals[mt.ID]; dup {
			return nil, fmt.Errorf("router: duplicate modal template %q", mt.ID)
		}
		r.modals[mt.ID] = mt.Handler
	}

	r.log.Info().
		Int("chat", len(r.chat)).
		Int("user", len(r.user)).
		Int("message", len(r.message)).
		Int("modals", len(r.modals)).
		Msg("command manifest loaded")
	return r, nil
}

// loadChatNode registers one top-level node and returns its wire descriptor.
func (r *Router) loadChatNode(node ChatNode) (*discordgo.ApplicationCommand, error) {
	switch n := node.(type) {
	case *ChatCommand:
		if err := r.registerChat(n.Name, n); err != nil {
			return nil, err
		}
		def := &discordgo.ApplicationCommand{
			Type:                     discordgo.ChatApplicationCommand,
			Name:                     n.Name,
			NameLocalizations:        localePtr(n.NameLocalizations),
			Description:              orPlaceholder(n.Description),
			DescriptionLocalizations: localePtr(n.DescriptionLocalizations),
			DefaultMemberPermissions: n.DefaultMemberPermissions,
			DMPermission:             n.DMPermission,
		}
		for _, opt := range n.Options {
			def.Options = append(def.Options, opt.wire(n.Autocomplete != nil))
		}
		return def, nil

	case *Group:
		if n.Name == "" {
			return nil, fmt.Errorf("router: group with empty name")
		}
		if len(n.Children) == 0 {
			return nil, fmt.Errorf("router: group %q has no children", n.Name)
		}
		def := &discordgo.ApplicationCommand{
			Type:                     discordgo.ChatApplicationCommand,
			Name:                     n.Name,
			NameLocalizations:        localePtr(n.NameLocalizations),
			Description:              orPlaceholder(n.Description),
			DescriptionLocalizations: localePtr(n.DescriptionLocalizations),
			DefaultMemberPermissions: n.DefaultMemberPermissions,
			DMPermission:             n.DMPermission,
		}
		for _, child := range n.Children {
			opt, err := r.loadGroupChild(n.Name, child)
			if err != nil {
				return nil, err
			}
			def.Options = append(def.Options, opt)
		}
		return def, nil
	}
	return nil, fmt.Errorf("router: unknown chat node %T", node)
}

// loadGroupChild handles the second level: a subcommand leaf or a subgroup of
// leaves under a top-level group.
func (r *Router) loadGroupChild(parent string, node ChatNode) (*discordgo.ApplicationCommandOption, error) {
	switch n := node.(type) {
	case *ChatCommand:
		if err := r.registerChat(parent+"."+n.Name, n); err != nil {
			return nil, err
		}
		return subcommandWire(n), nil

	case *Group:
		if n.Name == "" {
			return nil, fmt.Errorf("router: subgroup under %q with empty name", parent)
		}
		if len(n.Children) == 0 {
			return nil, fmt.Errorf("router: subgroup %q.%q has no children", parent, n.Name)
		}
		opt := &discordgo.ApplicationCommandOption{
			Type:                     discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:                     n.Name,
			NameLocalizations:        n.NameLocalizations,
			Description:              orPlaceholder(n.Description),
			DescriptionLocalizations: n.DescriptionLocalizations,
		}
		for _, child := range n.Children {
			leaf, ok := child.(*ChatCommand)
			if !ok {
				return nil, fmt.Errorf("router: subgroup %q.%q may only contain subcommands", parent, n.Name)
			}
			if err := r.registerChat(parent+"."+n.Name+"."+leaf.Name, leaf); err != nil {
				return nil, err
			}
			opt.Options = append(opt.Options, subcommandWire(leaf))
		}
		return opt, nil
	}
	return nil, fmt.Errorf("router: unknown chat node %T under %q", node, parent)
}

// registerChat inserts a leaf under its dotted dispatch key. Duplicates are a
// fatal load error, never a silent overwrite.
func (r *Router) registerChat(path string, cc *ChatCommand) error {
	if cc.Name == "" {
		return fmt.Errorf("router: chat command with empty name (key %q)", path)
	}
	if _, dup := r.chat[path]; dup {
		return fmt.Errorf("router: duplicate chat command %q", path)
	}
	r.chat[path] = cc
	r.log.Debug().Str("path", path).Msg("chat command registered")
	return nil
}

// subcommandWire encodes a leaf as a subcommand option.
func subcommandWire(cc *ChatCommand) *discordgo.ApplicationCommandOption {
	opt := &discordgo.ApplicationCommandOption{
		Type:                     discordgo.ApplicationCommandOptionSubCommand,
		Name:                     cc.Name,
		NameLocalizations:        cc.NameLocalizations,
		Description:              orPlaceholder(cc.Description),
		DescriptionLocalizations: cc.DescriptionLocalizations,
	}
	for _, o := range cc.Options {
		opt.Options = append(opt.Options, o.wire(cc.Autocomplete != nil))
	}
	return opt
}

func orPlaceholder(desc string) string {
	if desc == "" {
		return PlaceholderDescription
	}
	return desc
}

func localePtr(m map[discordgo.Locale]string) *map[discordgo.Locale]string {
	if len(m) == 0 {
		return nil
	}
	return &m
}
