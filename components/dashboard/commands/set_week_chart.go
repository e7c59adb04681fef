package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
)

// SetWeekChartInput toggles the week slot between its chart kinds.
type SetWeekChartInput struct {
	Kind dashboard.ChartKind `json:"kind"`
}

type weekChartSetter interface {
	SetWeekChart(ctx context.Context, kind dashboard.ChartKind) error
}

// SetWeekChartCommand wraps Controller.SetWeekChart for transports.
type SetWeekChartCommand struct {
	controller weekChartSetter
	telemetry  Telemetry
}

// NewSetWeekChartCommand creates a command instance.
func NewSetWeekChartCommand(controller weekChartSetter, telemetry Telemetry) *SetWeekChartCommand {
	return &SetWeekChartCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetWeekChartInput] = (*SetWeekChartCommand)(nil)

// Execute delegates to the dashboard controller.
func (c *SetWeekChartCommand) Execute(ctx context.Context, msg SetWeekChartInput) error {
	if c.controller == nil {
		return errors.New("set week chart command requires controller")
	}
	if err := c.controller.SetWeekChart(ctx, msg.Kind); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.set_week_chart", map[string]any{"kind": string(msg.Kind)})
	return nil
}
