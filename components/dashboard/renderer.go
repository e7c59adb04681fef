package dashboard

import (
	"context"
	"errors"
	"io"
)

// Renderer describes the template renderer contract needed by the controller.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// RenderPage writes the dashboard shell (weekday strip, nav controls, slots,
// banner regions) for the current calendar state. Slot content itself arrives
// later through the gateway.
func (c *Controller) RenderPage(ctx context.Context, w io.Writer) error {
	if c.opts.Renderer == nil {
		return errors.New("dashboard: renderer not configured")
	}
	snapshot := c.Snapshot(ctx)
	_, err := c.opts.Renderer.Render("dashboard", map[string]any{
		"snapshot": snapshot,
		"slots": []SlotKey{
			SlotDayActivity,
			SlotWeekActivity,
		},
	}, w)
	return err
}
