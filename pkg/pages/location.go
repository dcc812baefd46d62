package pages

import (
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	locationChannel = "channel"
	locationWebhook = "webhook"
)

// Location addresses a page's backing message: either a regular channel
// message or an interaction-webhook handle for ephemeral replies, which can
// only be touched through their token.
type Location struct {
	Kind      string `json:"kind"`
	GuildID   string `json:"guild_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	MessageID string `json:"message_id"`
	AppID     string `json:"app_id,omitempty"`
	Token     string `json:"token,omitempty"`
}

// ChannelLocation addresses a persistent channel message.
func ChannelLocation(guildID, channelID, messageID string) Location {
	return Location{Kind: locationChannel, GuildID: guildID, ChannelID: channelID, MessageID: messageID}
}

// WebhookLocation addresses an ephemeral interaction reply.
func WebhookLocation(appID, token, messageID string) Location {
	return Location{Kind: locationWebhook, AppID: appID, Token: token, MessageID: messageID}
}

// Ephemeral reports whether the location is an interaction-webhook handle.
func (l Location) Ephemeral() bool { return l.Kind == locationWebhook }

// Encode serializes the location for persistence.
func (l Location) Encode() (string, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("pages: encode location: %w", err)
	}
	return string(data), nil
}

// DecodeLocation parses a persisted location string.
func DecodeLocation(s string) (Location, error) {
	var l Location
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return Location{}, fmt.Errorf("pages: decode location: %w", err)
	}
	switch l.Kind {
	case locationChannel:
		if l.ChannelID == "" || l.MessageID == "" {
			return Location{}, fmt.Errorf("pages: channel location missing channel or message id")
		}
	case locationWebhook:
		if l.AppID == "" || l.Token == "" || l.MessageID == "" {
			return Location{}, fmt.Errorf("pages: webhook location missing app id, token, or message id")
		}
	default:
		return Location{}, fmt.Errorf("pages: unknown location kind %q", l.Kind)
	}
	return l, nil
}

// Edit applies a render to the backing message.
func (l Location) Edit(s *discordgo.Session, r *Render) error {
	switch l.Kind {
	case locationChannel:
		_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel:    l.ChannelID,
			ID:         l.MessageID,
			Content:    &r.Content,
			Embeds:     &r.Embeds,
			Components: &r.Components,
		})
		return err
	case locationWebhook:
		_, err := s.WebhookMessageEdit(l.AppID, l.Token, l.MessageID, &discordgo.WebhookEdit{
			Content:    &r.Content,
			Embeds:     &r.Embeds,
			Components: &r.Components,
		})
		return err
	}
	return fmt.Errorf("pages: unknown location kind %q", l.Kind)
}

// Delete removes the backing message.
func (l Location) Delete(s *discordgo.Session) error {
	switch l.Kind {
	case locationChannel:
		return s.ChannelMessageDelete(l.ChannelID, l.MessageID)
	case locationWebhook:
		return s.WebhookMessageDelete(l.AppID, l.Token, l.MessageID)
	}
	return fmt.Errorf("pages: unknown location kind %q", l.Kind)
}
