package pages

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DeserializeFunc rebuilds a page from its persisted state. The triggering
// interaction is passed through because some reconstructions need its context
// (e.g. the clicking user). Returning ErrPageGone marks the page closed.
type DeserializeFunc func(ctx context.Context, i *discordgo.InteractionCreate, state string) (Page, error)

// Type binds a page identifier to its deserializer.
type Type struct {
	ID          string
	Deserialize DeserializeFunc
}

// Registry maps page identifiers to their types. Populated once at startup;
// a missing type at rehydration time is treated as misconfiguration.
type Registry struct {
	types map[string]Type
}

// NewRegistry returns an empty page type registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Register adds a page type. Empty or placeholder identifiers, missing
// deserializers, and duplicates are all fatal configuration errors.
func (r *Registry) Register(t Type) error {
	if t.ID == "" || t.ID == UnsetID {
		return fmt.Errorf("pages: page type must declare its own identifier")
	}
	if t.Deserialize == nil {
		return fmt.Errorf("pages: page type %q has no deserializer", t.ID)
	}
	if _, dup := r.types[t.ID]; dup {
		return fmt.Errorf("pages: duplicate page type %q", t.ID)
	}
	r.types[t.ID] = t
	return nil
}

// Get looks up a page type by identifier.
func (r *Registry) Get(id string) (Type, bool) {
	t, ok := r.types[id]
	return t, ok
}
