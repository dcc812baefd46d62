package router

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gofrs/uuid/v5"
)

// ModalCustomID builds a submittable custom ID for a modal template: the
// template id plus a per-instance nonce, separated by a colon. HandleModal
// strips the nonce again when looking up the handler.
func ModalCustomID(templateID string) string {
	return templateID + ":" + uuid.Must(uuid.NewV4()).String()
}

// HandleModal dispatches a modal submission by its custom ID. Returns false
// when no template matches the ID's prefix.
func (r *Router) HandleModal(ctx context.Context, customID string, s *discordgo.Session, i *discordgo.InteractionCreate) (bool, error) {
	id, _, _ := strings.Cut(customID, ":")
	handler, ok := r.modals[id]
	if !ok {
		return false, nil
	}
	return true, handler(ctx, &ModalContext{Session: s, Event: i, CustomID: customID})
}

// TextInputValue extracts the submitted value of a text input by custom ID
// from modal submission data. Returns "" when the field is not present.
func TextInputValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range ar.Components {
			if ti, ok := comp.(*discordgo.TextInput); ok && ti.CustomID == customID {
				return ti.Value
			}
		}
	}
	return ""
}
