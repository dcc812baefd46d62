package commands

import (
	"context"
	"fmt"

	"pagekit/pkg/router"
)

func pingCommand() *router.ChatCommand {
	return &router.ChatCommand{
		Name:        "ping",
		Description: "Check bot latency",
		Run: func(_ context.Context, c *router.ChatContext) error {
			latency := c.Session.HeartbeatLatency().Milliseconds()
			return respondEphemeral(c, fmt.Sprintf("Pong! Latency: %dms", latency))
		},
	}
}
