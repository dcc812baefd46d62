package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"pagekit/pkg/router"
)

// tagStore is a process-local tag table; enough to demonstrate autocomplete
// against live data.
var tagStore = struct {
	mu   sync.RWMutex
	tags map[string]string
}{tags: map[string]string{
	"welcome": "Welcome to the server!",
	"rules":   "Be kind. No spam.",
}}

func tagGroup() *router.Group {
	return &router.Group{
		Name:        "tag",
		Description: "Store and recall text snippets",
		Children: []router.ChatNode{
			tagGetCommand(),
			tagSetCommand(),
		},
	}
}

func tagGetCommand() *router.ChatCommand {
	return &router.ChatCommand{
		Name:        "get",
		Description: "Recall a tag by name",
		Options: []*router.Option{
			{
				Name:        "name",
				Description: "Tag name",
				Type:        router.StringOption,
				Required:    true,
				// Per-option provider; wins over any command-level fallback.
				Autocomplete: func(_ context.Context, c *router.AutocompleteContext) ([]router.Choice, error) {
					return matchTags(fmt.Sprint(c.Value)), nil
				},
			},
		},
		Run: func(_ context.Context, c *router.ChatContext) error {
			name := c.Values.String("name")
			tagStore.mu.RLock()
			text, ok := tagStore.tags[name]
			tagStore.mu.RUnlock()
			if !ok {
				return respondEphemeral(c, fmt.Sprintf("No tag named %q.", name))
			}
			return respond(c, text)
		},
	}
}

func tagSetCommand() *router.ChatCommand {
	return &router.ChatCommand{
		Name:        "set",
		Description: "Create or replace a tag",
		Options: []*router.Option{
			{
				Name:        "name",
				Description: "Tag name",
				Type:        router.StringOption,
				Required:    true,
				MinLength:   intPtr(1),
				MaxLength:   intPtr(32),
				Validate: func(_ context.Context, _ *router.ChatContext, v any) error {
					if strings.ContainsAny(v.(string), " \t\n") {
						return router.Rejectf("tag names cannot contain whitespace")
					}
					return nil
				},
				// Normalize names so lookups are case-insensitive.
				Transform: func(_ context.Context, _ *router.ChatContext, v any) (any, error) {
					return strings.ToLower(v.(string)), nil
				},
			},
			{
				Name:        "text",
				Description: "Tag contents",
				Type:        router.StringOption,
				Required:    true,
				MaxLength:   intPtr(500),
			},
		},
		// Command-level fallback: suggests existing names for overwrite,
		// whatever option is focused.
		Autocomplete: func(_ context.Context, c *router.AutocompleteContext) error {
			return router.RespondChoices(c.Session, c.Event, matchTags(fmt.Sprint(c.Value)))
		},
		Run: func(_ context.Context, c *router.ChatContext) error {
			name := c.Values.String("name")
			tagStore.mu.Lock()
			tagStore.tags[name] = c.Values.String("text")
			tagStore.mu.Unlock()
			return respondEphemeral(c, fmt.Sprintf("Tag %q saved.", name))
		},
	}
}

func matchTags(prefix string) []router.Choice {
	prefix = strings.ToLower(prefix)

	tagStore.mu.RLock()
	names := make([]string, 0, len(tagStore.tags))
	for name := range tagStore.tags {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	tagStore.mu.RUnlock()

	sort.Strings(names)
	choices := make([]router.Choice, 0, len(names))
	for _, name := range names {
		choices = append(choices, router.Choice{Name: name, Value: name})
	}
	return choices
}
