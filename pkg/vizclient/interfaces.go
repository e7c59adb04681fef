package vizclient

import (
	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
)

// Client matches dashboard.Gateway so either the HTTP client or the mock can
// back a controller.
type Client = dashboard.Gateway

var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)
)
