package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// SyncDataInput carries the opaque payload pushed to the data service.
type SyncDataInput struct {
	Payload any `json:"payload"`
}

type dataSyncer interface {
	SyncData(ctx context.Context, payload any)
}

// SyncDataCommand triggers the insert/re-fetch flow. Gateway failures are
// absorbed by the controller (converted into banners), so Execute only fails
// on wiring errors.
type SyncDataCommand struct {
	controller dataSyncer
	telemetry  Telemetry
}

// NewSyncDataCommand creates a command instance.
func NewSyncDataCommand(controller dataSyncer, telemetry Telemetry) *SyncDataCommand {
	return &SyncDataCommand{controller: controller, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SyncDataInput] = (*SyncDataCommand)(nil)

// Execute delegates to the dashboard controller.
func (c *SyncDataCommand) Execute(ctx context.Context, msg SyncDataInput) error {
	if c.controller == nil {
		return errors.New("sync data command requires controller")
	}
	c.controller.SyncData(ctx, msg.Payload)
	c.telemetry.Record(ctx, "dashboard.command.sync_data", nil)
	return nil
}
