package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// SelectDayInput identifies the clicked weekday by its stable ISO date key.
type SelectDayInput struct {
	Day string `json:"day"`
}

type daySelector interface {
	SelectDay(ctx context.Context, dayKey string) error
}

// SelectDayCommand translates weekday clicks into controller calls so
// transports never link against the controller directly.
type SelectDayCommand struct {
	controller daySelector
	telemetry  Telemetry
}

// NewSelectDayCommand creates a command instance.
func NewSelectDayCommand(controller daySelector, telemetry Telemetry) *SelectDayCommand {
	return &SelectDayCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectDayInput] = (*SelectDayCommand)(nil)

// Execute delegates to the dashboard controller.
func (c *SelectDayCommand) Execute(ctx context.Context, msg SelectDayInput) error {
	if c.controller == nil {
		return errors.New("select day command requires controller")
	}
	if err := c.controller.SelectDay(ctx, msg.Day); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.select_day", map[string]any{"day": msg.Day})
	return nil
}
