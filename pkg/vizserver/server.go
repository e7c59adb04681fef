package vizserver

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
)

// Options configures the visualization service.
type Options struct {
	Store  *Store
	Cache  *RenderCache
	Logger *zap.Logger
}

// Server is a local implementation of the visualization/data wire protocol:
// one POST endpoint dispatching on the request document's "type" field. It
// stands in for the remote rendering engine during development and tests.
type Server struct {
	app    *fiber.App
	store  *Store
	cache  *RenderCache
	logger *zap.Logger
}

// New builds the server with safe defaults (empty store, 1m render cache).
func New(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = NewStore()
	}
	if opts.Cache == nil {
		opts.Cache = NewRenderCache(time.Minute)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Server{
		app:    fiber.New(fiber.Config{DisableStartupMessage: true}),
		store:  opts.Store,
		cache:  opts.Cache,
		logger: opts.Logger,
	}
	s.app.Post("/", s.handle)
	return s
}

// App exposes the fiber app for tests (app.Test) and custom mounting.
func (s *Server) App() *fiber.App { return s.app }

// Store exposes the sample store for seeding.
func (s *Server) Store() *Store { return s.store }

// Listen serves on addr until the app shuts down.
func (s *Server) Listen(addr string) error {
	s.logger.Info("visualization service listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the fiber app.
func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) handle(c *fiber.Ctx) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(c.Body(), &probe); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request document"})
	}
	switch probe.Type {
	case "visualization":
		return s.handleVisualization(c)
	case "data":
		return s.handleData(c)
	case "help":
		return s.handleHelp(c)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown request type " + probe.Type})
	}
}

func (s *Server) handleVisualization(c *fiber.Ctx) error {
	var req dashboard.VisualizationRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(req.Data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "data selectors are required"})
	}

	selected := make(map[string][]Sample, len(req.Data))
	empty := true
	for _, selector := range req.Data {
		samples := s.store.Select(selector.ID, selector.From, selector.To)
		if len(samples) > 0 {
			empty = false
		}
		selected[selector.ID] = samples
	}
	if empty {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no data for requested range"})
	}

	html, err := s.cache.GetOrRender(RequestKey(req), func() (string, error) {
		series, err := Process(req.Processor, selected)
		if err != nil {
			return "", err
		}
		return Render(req.Visualization, series)
	})
	if err != nil {
		s.logger.Warn("render failed", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}

func (s *Server) handleData(c *fiber.Ctx) error {
	var req struct {
		Action string           `json:"action"`
		Data   []DatasetSamples `json:"data"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Action != "insert" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown data action " + req.Action})
	}
	added, err := s.store.Insert(req.Data)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "all data has already been synchronized"})
	}
	s.cache.Clear()
	s.logger.Info("samples inserted", zap.Int("added", added))
	return c.JSON(fiber.Map{"inserted": added})
}

func (s *Server) handleHelp(c *fiber.Ctx) error {
	var req dashboard.HelpRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	switch req.For {
	case dashboard.HelpVisualizations:
		return c.JSON(fiber.Map{dashboard.HelpVisualizations: supportedVisualizations})
	case dashboard.HelpProcessingMethods:
		return c.JSON(fiber.Map{dashboard.HelpProcessingMethods: supportedProcessingMethods})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown help topic " + req.For})
	}
}
