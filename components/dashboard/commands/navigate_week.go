package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
)

// NavigateWeekInput shifts the displayed week by whole weeks (usually ±1).
type NavigateWeekInput struct {
	Delta int `json:"delta"`
}

type weekNavigator interface {
	NavigateWeek(ctx context.Context, delta int) error
}

// NavigateWeekCommand wraps Controller.NavigateWeek for transports.
type NavigateWeekCommand struct {
	controller weekNavigator
	telemetry  Telemetry
}

// NewNavigateWeekCommand creates a command instance.
func NewNavigateWeekCommand(controller weekNavigator, telemetry Telemetry) *NavigateWeekCommand {
	return &NavigateWeekCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NavigateWeekInput] = (*NavigateWeekCommand)(nil)

// Execute delegates to the dashboard controller.
func (c *NavigateWeekCommand) Execute(ctx context.Context, msg NavigateWeekInput) error {
	if c.controller == nil {
		return errors.New("navigate week command requires controller")
	}
	if msg.Delta == 0 {
		return fmt.Errorf("navigate week delta must be non-zero")
	}
	if err := c.controller.NavigateWeek(ctx, msg.Delta); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.navigate_week", map[string]any{"delta": msg.Delta})
	return nil
}
