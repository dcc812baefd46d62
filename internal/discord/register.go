package discord

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// registerCommands pushes the router's wire descriptors to a guild with
// bulk-overwrite semantics: the remote command set is replaced atomically.
// A hash of the descriptor set is cached in storage so unchanged sets skip
// the network round-trip entirely.
func (b *Bot) registerCommands(ctx context.Context, guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}

	defs := b.router.Commands()
	hash := hashCommandSet(defs)

	if b.storage != nil && b.storage.CommandHash(guildID) == hash {
		b.log.Debug().Str("guild_id", guildID).Msg("command set unchanged, skipping registration")
		return nil
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := b.dg.ApplicationCommandBulkOverwrite(appID, guildID, defs); err != nil {
		return fmt.Errorf("bulk overwrite for guild %s: %w", guildID, err)
	}
	b.log.Info().Str("guild_id", guildID).Int("commands", len(defs)).Msg("commands registered")

	if b.storage != nil {
		b.storage.SetCommandHash(guildID, hash)
	}
	return nil
}

// appID returns the bot's application ID, fetching from Discord if not
// cached in session state.
func (b *Bot) appID() (string, error) {
	if st := b.dg.State; st != nil && st.User != nil && st.User.ID != "" {
		return st.User.ID, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}

// hashCommandSet returns a deterministic SHA-1 of the full descriptor set's
// stable fields. Used to skip re-registration when nothing has changed.
func hashCommandSet(defs []*discordgo.ApplicationCommand) string {
	stable := make([]map[string]any, len(defs))
	for i, d := range defs {
		entry := map[string]any{
			"name":        d.Name,
			"description": d.Description,
			"type":        d.Type,
		}
		if len(d.Options) > 0 {
			entry["options"] = normalizeOptions(d.Options)
		}
		stable[i] = entry
	}
	data, _ := json.Marshal(stable)
	sum := sha1.Sum(data)
	return fmt.Sprintf("%x", sum)
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]any {
	out := make([]map[string]any, len(opts))
	for i, o := range opts {
		entry := map[string]any{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]any, len(o.Choices))
			for j, ch := range o.Choices {
				choices[j] = map[string]any{"name": ch.Name, "value": ch.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = normalizeOptions(o.Options)
		}
		out[i] = entry
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["name"].(string) < out[j]["name"].(string)
	})
	return out
}
