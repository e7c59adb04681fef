package vizclient

import (
	"context"
	"sync"

	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
)

// MockData seeds deterministic responses for tests or local demos.
type MockData struct {
	Fragment     dashboard.Fragment
	VisualizeErr error
	InsertErr    error
	Capabilities map[string][]string
}

// MockClient implements Client using in-memory fixtures. It records every
// request it receives so tests can assert on dispatch behavior.
type MockClient struct {
	mu   sync.Mutex
	data MockData

	Visualizations []dashboard.VisualizationRequest
	Inserts        []dashboard.DataInsertRequest
}

// NewMockClient builds a mock from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

// Visualize returns the configured fragment or error and records the request.
func (c *MockClient) Visualize(_ context.Context, req dashboard.VisualizationRequest) (dashboard.Fragment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Visualizations = append(c.Visualizations, req)
	if c.data.VisualizeErr != nil {
		return "", c.data.VisualizeErr
	}
	return c.data.Fragment, nil
}

// Insert returns the configured error and records the request.
func (c *MockClient) Insert(_ context.Context, req dashboard.DataInsertRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Inserts = append(c.Inserts, req)
	return c.data.InsertErr
}

// Capabilities returns the configured listing for the topic.
func (c *MockClient) Capabilities(_ context.Context, topic string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.data.Capabilities[topic]...), nil
}

// SetVisualizeErr swaps the scripted visualization outcome.
func (c *MockClient) SetVisualizeErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.VisualizeErr = err
}

// VisualizationCount reports how many visualization requests were received.
func (c *MockClient) VisualizationCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Visualizations)
}
