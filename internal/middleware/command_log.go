// Package middleware provides reusable middleware for the command router's
// three dispatch chains.
package middleware

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"pagekit/pkg/router"
)

// WithCommandLogger logs every chat-command execution with its dotted path,
// invoking user, and duration.
func WithCommandLogger(log zerolog.Logger) router.Middleware[router.ChatHandler] {
	return func(next router.ChatHandler) router.ChatHandler {
		return func(ctx context.Context, c *router.ChatContext) error {
			start := time.Now()
			err := next(ctx, c)

			ev := log.Info()
			if err != nil {
				ev = log.Error().Err(err)
			}
			ev.Str("path", c.Path).
				Str("user", invokingUserID(c)).
				Dur("took", time.Since(start)).
				Msg("chat command")
			return err
		}
	}
}

// WithAutocompleteLogger logs autocomplete dispatches at debug level.
func WithAutocompleteLogger(log zerolog.Logger) router.Middleware[router.AutocompleteHandler] {
	return func(next router.AutocompleteHandler) router.AutocompleteHandler {
		return func(ctx context.Context, c *router.AutocompleteContext) error {
			err := next(ctx, c)
			log.Debug().Err(err).Str("path", c.Path).Str("focused", c.Focused).Msg("autocomplete")
			return err
		}
	}
}

// WithMenuLogger logs context-menu executions.
func WithMenuLogger(log zerolog.Logger) router.Middleware[router.MenuHandler] {
	return func(next router.MenuHandler) router.MenuHandler {
		return func(ctx context.Context, c *router.MenuContext) error {
			err := next(ctx, c)
			ev := log.Info()
			if err != nil {
				ev = log.Error().Err(err)
			}
			ev.Str("name", c.Event.ApplicationCommandData().Name).Msg("context menu command")
			return err
		}
	}
}

func invokingUserID(c *router.ChatContext) string {
	if c.Event.Member != nil && c.Event.Member.User != nil {
		return c.Event.Member.User.ID
	}
	if c.Event.User != nil {
		return c.Event.User.ID
	}
	return "unknown"
}
