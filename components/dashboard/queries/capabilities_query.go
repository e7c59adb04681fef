package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// CapabilitiesInput names the help topic (visualizations / processingmethods).
type CapabilitiesInput struct {
	Topic string `json:"topic"`
}

type capabilitiesController interface {
	Capabilities(ctx context.Context, topic string) ([]string, error)
}

// CapabilitiesQuery proxies the service's help listings for transports.
type CapabilitiesQuery struct {
	controller capabilitiesController
}

// NewCapabilitiesQuery builds the query.
func NewCapabilitiesQuery(controller capabilitiesController) *CapabilitiesQuery {
	return &CapabilitiesQuery{controller: controller}
}

var _ gocommand.Querier[CapabilitiesInput, []string] = (*CapabilitiesQuery)(nil)

// Query fetches the listing for the topic.
func (q *CapabilitiesQuery) Query(ctx context.Context, input CapabilitiesInput) ([]string, error) {
	return q.controller.Capabilities(ctx, input.Topic)
}
