package router

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// OptionType is the closed set of semantic option types.
type OptionType int

const (
	StringOption OptionType = iota
	IntegerOption
	BooleanOption
	UserOption
	ChannelOption
	RoleOption
	MentionableOption
	NumberOption
	AttachmentOption
)

// wireType maps an OptionType to its discordgo wire constant.
func (t OptionType) wireType() discordgo.ApplicationCommandOptionType {
	switch t {
	case StringOption:
		return discordgo.ApplicationCommandOptionString
	case IntegerOption:
		return discordgo.ApplicationCommandOptionInteger
	case BooleanOption:
		return discordgo.ApplicationCommandOptionBoolean
	case UserOption:
		return discordgo.ApplicationCommandOptionUser
	case ChannelOption:
		return discordgo.ApplicationCommandOptionChannel
	case RoleOption:
		return discordgo.ApplicationCommandOptionRole
	case MentionableOption:
		return discordgo.ApplicationCommandOptionMentionable
	case NumberOption:
		return discordgo.ApplicationCommandOptionNumber
	case AttachmentOption:
		return discordgo.ApplicationCommandOptionAttachment
	}
	panic(fmt.Sprintf("router: unknown option type %d", t))
}

// Choice is one fixed or autocomplete-suggested option value.
type Choice struct {
	Name              string
	NameLocalizations map[discordgo.Locale]string
	Value             any
}

type (
	// ValidateFunc inspects a resolved option value on submission. Returning
	// an error that matches *ValidationError rejects the value with a
	// user-facing message; any other error is treated as a programming error
	// and aborts the whole dispatch.
	ValidateFunc func(ctx context.Context, c *ChatContext, value any) error

	// TransformFunc replaces a valid option value with an application value.
	TransformFunc func(ctx context.Context, c *ChatContext, value any) (any, error)

	// AutocompleteFunc suggests choices for a focused option.
	AutocompleteFunc func(ctx context.Context, c *AutocompleteContext) ([]Choice, error)
)

// Option describes one command option. Validate, Transform, and Autocomplete
// are independent; any subset may be set.
type Option struct {
	Name                     string
	Description              string
	NameLocalizations        map[discordgo.Locale]string
	DescriptionLocalizations map[discordgo.Locale]string
	Type                     OptionType
	Required                 bool
	Choices                  []Choice
	MinValue                 *float64
	MaxValue                 *float64
	MinLength                *int
	MaxLength                *int
	ChannelTypes             []discordgo.ChannelType
	Validate                 ValidateFunc
	Transform                TransformFunc
	Autocomplete             AutocompleteFunc
}

// supportsAutocomplete reports whether the platform accepts the autocomplete
// flag for this option type.
func (t OptionType) supportsAutocomplete() bool {
	switch t {
	case StringOption, IntegerOption, NumberOption:
		return true
	}
	return false
}

// wire converts the option to its registration descriptor. fallback reports
// whether the owning command declares a command-level autocomplete handler;
// provider-less options still advertise autocomplete then, otherwise the
// platform would never send focus events for them.
func (o *Option) wire(fallback bool) *discordgo.ApplicationCommandOption {
	auto := o.Autocomplete != nil
	if fallback && len(o.Choices) == 0 && o.Type.supportsAutocomplete() {
		auto = true
	}
	out := &discordgo.ApplicationCommandOption{
		Type:                     o.Type.wireType(),
		Name:                     o.Name,
		NameLocalizations:        o.NameLocalizations,
		Description:              orPlaceholder(o.Description),
		DescriptionLocalizations: o.DescriptionLocalizations,
		Required:                 o.Required,
		ChannelTypes:             o.ChannelTypes,
		Autocomplete:             auto,
		MinValue:                 o.MinValue,
		MinLength:                o.MinLength,
	}
	if o.MaxValue != nil {
		out.MaxValue = *o.MaxValue
	}
	if o.MaxLength != nil {
		out.MaxLength = *o.MaxLength
	}
	for _, ch := range o.Choices {
		out.Choices = append(out.Choices, &discordgo.ApplicationCommandOptionChoice{
			Name:              ch.Name,
			NameLocalizations: ch.NameLocalizations,
			Value:             ch.Value,
		})
	}
	return out
}

// ValidationError marks a user-correctable option rejection. Validators
// return it (directly or wrapped) to have the message collected and reported;
// every other error type propagates out of dispatch untouched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Rejectf builds a *ValidationError with a formatted user-facing message.
func Rejectf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
