package commands

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"pagekit/pkg/router"
)

func rollCommand() *router.ChatCommand {
	return &router.ChatCommand{
		Name:        "roll",
		Description: "Roll some dice",
		Options: []*router.Option{
			{
				Name:        "sides",
				Description: "Number of sides per die",
				Type:        router.IntegerOption,
				Required:    true,
				MinValue:    float64Ptr(2),
				MaxValue:    float64Ptr(1000),
			},
			{
				Name:        "count",
				Description: "How many dice to roll",
				Type:        router.IntegerOption,
				Validate: func(_ context.Context, _ *router.ChatContext, v any) error {
					if n := v.(int64); n < 1 || n > 25 {
						return router.Rejectf("count must be between 1 and 25, got %d", n)
					}
					return nil
				},
			},
		},
		Run: runRoll,
	}
}

func runRoll(_ context.Context, c *router.ChatContext) error {
	sides := c.Values.Int("sides")
	count := c.Values.Int("count")
	if count == 0 {
		count = 1
	}

	rolls := make([]string, count)
	total := int64(0)
	for i := range rolls {
		r := rand.Int63n(sides) + 1
		total += r
		rolls[i] = fmt.Sprintf("%d", r)
	}
	return respond(c, fmt.Sprintf("🎲 %s = **%d**", strings.Join(rolls, " + "), total))
}
