package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Values holds resolved option values keyed by option name. Options the user
// did not supply are present with a nil value.
type Values map[string]any

// String returns the named value as a string, or "" when absent.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns the named value as an int64, or 0 when absent.
func (v Values) Int(name string) int64 {
	n, _ := v[name].(int64)
	return n
}

// Bool returns the named value as a bool, or false when absent.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// Float returns the named value as a float64, or 0 when absent.
func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)
	return f
}

// User returns the named value as a user, or nil when absent.
func (v Values) User(name string) *discordgo.User {
	u, _ := v[name].(*discordgo.User)
	return u
}

// Channel returns the named value as a channel, or nil when absent.
func (v Values) Channel(name string) *discordgo.Channel {
	c, _ := v[name].(*discordgo.Channel)
	return c
}

// Role returns the named value as a role, or nil when absent.
func (v Values) Role(name string) *discordgo.Role {
	r, _ := v[name].(*discordgo.Role)
	return r
}

// Attachment returns the named value as an attachment, or nil when absent.
func (v Values) Attachment(name string) *discordgo.MessageAttachment {
	a, _ := v[name].(*discordgo.MessageAttachment)
	return a
}

// resolvePass controls which parts of the option pipeline run.
type resolvePass struct {
	autocomplete bool // validators are never invoked during autocomplete
	skipRequired bool // partial input is expected, absent required values pass
}

// resolveOptions walks the command's declared options in order, extracting
// the typed raw value for each, then running validator and transformer.
// Rejections accumulate across all options so the user sees every invalid
// field at once; any non-ValidationError aborts the pass immediately.
func resolveOptions(
	ctx context.Context,
	cc *ChatCommand,
	chatCtx *ChatContext,
	raw []*discordgo.ApplicationCommandInteractionDataOption,
	resolved *discordgo.ApplicationCommandInteractionDataResolved,
	pass resolvePass,
) (Values, []string, error) {
	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(raw))
	for _, o := range raw {
		byName[o.Name] = o
	}

	values := make(Values, len(cc.Options))
	var rejections []string

	for _, opt := range cc.Options {
		ro, ok := byName[opt.Name]
		if !ok {
			values[opt.Name] = nil
			if opt.Required && !pass.skipRequired {
				rejections = append(rejections, fmt.Sprintf("option %q is required", opt.Name))
			}
			// Absent values skip validation and transformation entirely.
			continue
		}

		value, err := extractValue(opt.Type, ro, resolved)
		if err != nil {
			return nil, nil, fmt.Errorf("option %q: %w", opt.Name, err)
		}

		if opt.Validate != nil && !pass.autocomplete {
			if err := opt.Validate(ctx, chatCtx, value); err != nil {
				var verr *ValidationError
				if errors.As(err, &verr) {
					rejections = append(rejections, verr.Message)
					values[opt.Name] = nil
					continue
				}
				return nil, nil, fmt.Errorf("validator for option %q: %w", opt.Name, err)
			}
		}

		if opt.Transform != nil {
			value, err = opt.Transform(ctx, chatCtx, value)
			if err != nil {
				return nil, nil, fmt.Errorf("transformer for option %q: %w", opt.Name, err)
			}
		}
		values[opt.Name] = value
	}

	return values, rejections, nil
}

// extractValue pulls the typed value for one option out of the interaction
// data. Entity types resolve through the event's resolved maps; an entity the
// platform did not resolve falls back to an ID-only struct.
func extractValue(
	t OptionType,
	ro *discordgo.ApplicationCommandInteractionDataOption,
	resolved *discordgo.ApplicationCommandInteractionDataResolved,
) (any, error) {
	switch t {
	case StringOption:
		return ro.StringValue(), nil
	case IntegerOption:
		return ro.IntValue(), nil
	case BooleanOption:
		return ro.BoolValue(), nil
	case NumberOption:
		return ro.FloatValue(), nil
	case UserOption:
		id, err := snowflake(ro)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			if u, ok := resolved.Users[id]; ok {
				return u, nil
			}
		}
		return &discordgo.User{ID: id}, nil
	case ChannelOption:
		id, err := snowflake(ro)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			if c, ok := resolved.Channels[id]; ok {
				return c, nil
			}
		}
		return &discordgo.Channel{ID: id}, nil
	case RoleOption:
		id, err := snowflake(ro)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			if r, ok := resolved.Roles[id]; ok {
				return r, nil
			}
		}
		return &discordgo.Role{ID: id}, nil
	case MentionableOption:
		id, err := snowflake(ro)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			if u, ok := resolved.Users[id]; ok {
				return u, nil
			}
			if r, ok := resolved.Roles[id]; ok {
				return r, nil
			}
		}
		return &discordgo.User{ID: id}, nil
	case AttachmentOption:
		id, err := snowflake(ro)
		if err != nil {
			return nil, err
		}
		if resolved != nil {
			if a, ok := resolved.Attachments[id]; ok {
				return a, nil
			}
		}
		return nil, fmt.Errorf("attachment %s missing from resolved data", id)
	}
	return nil, fmt.Errorf("unknown option type %d", t)
}

// snowflake reads an entity option's raw value, which the wire encodes as an
// ID string.
func snowflake(ro *discordgo.ApplicationCommandInteractionDataOption) (string, error) {
	id, ok := ro.Value.(string)
	if !ok {
		return "", fmt.Errorf("expected snowflake string, got %T", ro.Value)
	}
	return id, nil
}
