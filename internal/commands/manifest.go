// Package commands declares the bot's command manifest: every chat command,
// context-menu command, modal template, and page type the bot ships with.
package commands

import (
	"github.com/rs/zerolog"

	"pagekit/pkg/pages"
	"pagekit/pkg/router"
)

// Deps carries the collaborators commands need at execution time.
type Deps struct {
	Pages *pages.Manager
	Log   zerolog.Logger
}

// Manifest assembles the full command tree.
func Manifest(d *Deps) router.Manifest {
	return router.Manifest{
		Chat: []router.ChatNode{
			pingCommand(),
			rollCommand(),
			tagGroup(),
			counterCommand(d),
			pollCommand(d),
			feedbackCommand(),
		},
		User: []*router.UserCommand{
			reportUserCommand(),
		},
		Message: []*router.MessageCommand{
			quoteMessageCommand(),
		},
		Modals: []*router.ModalTemplate{
			feedbackModal(d),
		},
	}
}

// PageTypes lists the page types the bot can rehydrate.
func PageTypes() []pages.Type {
	return []pages.Type{
		counterPageType(),
		pollPageType(),
	}
}
