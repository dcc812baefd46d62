package commands

import (
	"pagekit/internal/discord"
	"pagekit/pkg/router"
)

func respond(c *router.ChatContext, content string) error {
	return discord.Respond(c.Session, c.Event, content)
}

func respondEphemeral(c *router.ChatContext, content string) error {
	return discord.RespondEphemeral(c.Session, c.Event, content)
}

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }
